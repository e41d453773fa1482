// Marquee Core
// Copyright (c) 2025 The Marquee Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Marquee Core.
//
// Marquee Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Marquee Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Marquee Core.  If not, see <http://www.gnu.org/licenses/>.

package methods

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/api/models/requests"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/helpers"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// HandleStatus reports a full device snapshot: identity, settings,
// clock state and the current message.
func HandleStatus(env requests.RequestEnv) http.HandlerFunc { //nolint:gocritic // single-use parameter in API handler
	return func(w http.ResponseWriter, _ *http.Request) {
		log.Info().Msg("received status request")

		text, _ := env.State.Message()

		timeStr := ""
		if hour, minute, ok := env.Clock.Read(); ok {
			timeStr = fmt.Sprintf("%02d:%02d", hour, minute)
		}

		writeJSON(w, models.StatusResponse{
			Version:          config.AppVersion,
			DeviceName:       helpers.DeviceName(env.Config),
			IP:               helpers.GetLocalIP(),
			Display:          text,
			TimeZoneSpec:     env.State.TimeZoneSpec(),
			TemperatureUnit:  env.State.TemperatureUnit(),
			Time:             timeStr,
			ScrollIntervalMS: int(env.State.ScrollInterval() / time.Millisecond),
			ClockSynced:      env.State.ClockSynced(),
		})
	}
}
