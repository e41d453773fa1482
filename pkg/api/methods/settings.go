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
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/models/requests"
	"github.com/MarqueeProject/marquee-core/pkg/api/notifications"
	"github.com/MarqueeProject/marquee-core/pkg/clock"
	"github.com/MarqueeProject/marquee-core/pkg/settings"
	"github.com/rs/zerolog/log"
)

const configPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Marquee Settings</title>
</head>
<body>
<h1>Marquee Settings</h1>
<form action="/updateConfig" method="POST">
<p>
<label for="tzOffset">Time zone</label><br>
<input type="text" id="tzOffset" name="tzOffset" value="{{.TimeZoneSpec}}">
</p>
<p>
<label for="scrollSpeed">Scroll interval: {{.ScrollInterval}} ms</label><br>
<input type="range" id="scrollSpeed" name="scrollSpeed" min="{{.MinScroll}}" max="{{.MaxScroll}}" value="{{.ScrollInterval}}">
</p>
<p>
<label for="tempUnit">Temperature unit</label><br>
<select id="tempUnit" name="tempUnit">
<option value="C"{{if eq .TemperatureUnit "C"}} selected{{end}}>Celsius</option>
<option value="F"{{if eq .TemperatureUnit "F"}} selected{{end}}>Fahrenheit</option>
</select>
</p>
<p><input type="submit" value="Save"></p>
</form>
</body>
</html>
`

const configSavedHTML = `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Marquee Settings</title>
</head>
<body>
<h1>Settings saved</h1>
<p>Time zone: {{.TimeZoneSpec}}<br>
Scroll interval: {{.ScrollInterval}} ms<br>
Temperature unit: {{.TemperatureUnit}}</p>
<p><a href="/config">Back to settings</a></p>
</body>
</html>
`

var (
	configPageTmpl  = template.Must(template.New("configPage").Parse(configPageHTML))
	configSavedTmpl = template.Must(template.New("configSaved").Parse(configSavedHTML))
)

type configPageData struct {
	TimeZoneSpec    string
	TemperatureUnit string
	ScrollInterval  int
	MinScroll       int
	MaxScroll       int
}

// HandleConfigPage renders the settings form with the live values, not
// the persisted ones, so a change made over the API shows up without a
// restart.
func HandleConfigPage(env requests.RequestEnv) http.HandlerFunc { //nolint:gocritic // single-use parameter in API handler
	return func(w http.ResponseWriter, _ *http.Request) {
		data := configPageData{
			TimeZoneSpec:    env.State.TimeZoneSpec(),
			TemperatureUnit: env.State.TemperatureUnit(),
			ScrollInterval:  int(env.State.ScrollInterval() / time.Millisecond),
			MinScroll:       settings.MinScrollInterval,
			MaxScroll:       settings.MaxScrollInterval,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := configPageTmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render config page")
		}
	}
}

// HandleUpdateConfig validates and applies the settings form. Checks
// run in a fixed order and the first failure is reported alone, so a
// form with several problems gets one clear message at a time.
func HandleUpdateConfig(env requests.RequestEnv) http.HandlerFunc { //nolint:gocritic // single-use parameter in API handler
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("received settings update request")

		if err := r.ParseForm(); err != nil {
			http.Error(w, "failed to parse form", http.StatusBadRequest)
			return
		}

		for _, field := range []string{"tzOffset", "scrollSpeed", "tempUnit"} {
			if !r.PostForm.Has(field) {
				http.Error(w, "missing required field: "+field, http.StatusBadRequest)
				return
			}
		}

		intervalMS, err := strconv.Atoi(r.PostForm.Get("scrollSpeed"))
		if err != nil {
			http.Error(w, "scroll interval must be a number", http.StatusBadRequest)
			return
		}
		if intervalMS < settings.MinScrollInterval || intervalMS > settings.MaxScrollInterval {
			msg := fmt.Sprintf(
				"scroll interval must be between %d and %d ms",
				settings.MinScrollInterval, settings.MaxScrollInterval,
			)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		unit := r.PostForm.Get("tempUnit")
		if unit != "C" && unit != "F" {
			http.Error(w, "temperature unit must be C or F", http.StatusBadRequest)
			return
		}

		tzSpec := r.PostForm.Get("tzOffset")
		if tzSpec == "" {
			http.Error(w, "time zone must not be empty", http.StatusBadRequest)
			return
		}

		if err := persistSettings(env.Settings, tzSpec, unit, intervalMS); err != nil {
			log.Error().Err(err).Msg("failed to persist settings")
			http.Error(w, "failed to save settings", http.StatusInternalServerError)
			return
		}

		env.State.ApplySettings(time.Duration(intervalMS)*time.Millisecond, tzSpec, unit)
		log.Info().
			Str("timeZoneSpec", tzSpec).
			Str("temperatureUnit", unit).
			Int("scrollIntervalMs", intervalMS).
			Msg("settings updated")

		syncClockAfterUpdate(r, env, tzSpec)

		data := configPageData{
			TimeZoneSpec:    tzSpec,
			TemperatureUnit: unit,
			ScrollInterval:  intervalMS,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := configSavedTmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render confirmation page")
		}
	}
}

func persistSettings(store *settings.Store, tzSpec, unit string, intervalMS int) error {
	if err := store.SetTimeZoneSpec(tzSpec); err != nil {
		return err
	}
	if err := store.SetTemperatureUnit(unit); err != nil {
		return err
	}
	if err := store.SetScrollInterval(intervalMS); err != nil {
		return err
	}
	return nil
}

// syncClockAfterUpdate reconfigures the clock for the new time zone and
// waits a bounded time for it to sync, pushing the time onto the panel
// right away when it does. A spec the clock rejects is logged but does
// not fail the request, the settings themselves were already accepted
// and saved.
func syncClockAfterUpdate(r *http.Request, env requests.RequestEnv, tzSpec string) { //nolint:gocritic // single-use parameter in API handler
	if err := env.Clock.Configure(tzSpec); err != nil {
		log.Warn().Err(err).Msg("clock not reconfigured")
		return
	}

	hour, minute, ok := clock.WaitForSync(
		r.Context(), env.Clock, env.PollClock,
		clock.SyncPollAttempts, clock.SyncPollInterval,
	)
	if !ok {
		log.Warn().Msg("clock did not sync after settings change")
		return
	}

	timeStr := fmt.Sprintf("%02d:%02d", hour, minute)
	env.State.SetClockSynced(true)
	if err := env.Display.WriteTimeField(timeStr); err != nil {
		log.Error().Err(err).Msg("failed to write time field")
	}
	notifications.ClockSynced(env.State.Notifications, timeStr)
}
