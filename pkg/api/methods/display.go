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
	"io"
	"net/http"

	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/api/models/requests"
	"github.com/MarqueeProject/marquee-core/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

// maxDisplayBody caps how much of a POST /display body is read. The
// message itself is limited to 40 characters, so anything past this is
// junk.
const maxDisplayBody = 1024

// HandleSetDisplay updates the scrolling message from a JSON body.
func HandleSetDisplay(env requests.RequestEnv) http.HandlerFunc { //nolint:gocritic // single-use parameter in API handler
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("received display update request")

		body, err := io.ReadAll(io.LimitReader(r.Body, maxDisplayBody))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		var req models.DisplayRequest
		if err := validation.ValidateAndUnmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		env.State.SetMessage(*req.Text)
		// Persistence is best effort, the new message is already live.
		if err := env.Settings.SetDisplayMessage(*req.Text); err != nil {
			log.Warn().Err(err).Msg("failed to persist display message")
		}

		log.Info().Str("text", *req.Text).Msg("display message updated")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleDisplayState reports the current scrolling message.
func HandleDisplayState(env requests.RequestEnv) http.HandlerFunc { //nolint:gocritic // single-use parameter in API handler
	return func(w http.ResponseWriter, _ *http.Request) {
		text, _ := env.State.Message()
		writeJSON(w, models.DisplayResponse{Display: text})
	}
}
