// Marquee Core
// Copyright (c) 2026 The Marquee Project Contributors.
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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ReportsSnapshot(t *testing.T) {
	t.Parallel()

	env, src, _ := createTestEnv(t)
	router := newTestRouter(t, env)

	env.State.SetMessage("DOUBLE FEATURE TONIGHT")
	env.State.ApplySettings(70*time.Millisecond, "NZST-12NZDT,M9.5.0,M4.1.0/3", "C")
	env.State.SetClockSynced(true)

	src.mu.Lock()
	src.hour, src.minute, src.ok = 18, 42, true
	src.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/v0/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.StatusResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err, "response should be valid JSON")

	assert.Equal(t, config.AppVersion, resp.Version)
	assert.NotEmpty(t, resp.DeviceName)
	assert.Equal(t, "DOUBLE FEATURE TONIGHT", resp.Display)
	assert.Equal(t, "NZST-12NZDT,M9.5.0,M4.1.0/3", resp.TimeZoneSpec)
	assert.Equal(t, "C", resp.TemperatureUnit)
	assert.Equal(t, "18:42", resp.Time)
	assert.Equal(t, 70, resp.ScrollIntervalMS)
	assert.True(t, resp.ClockSynced)
}

func TestStatus_UnsyncedClockHasNoTime(t *testing.T) {
	t.Parallel()

	env, _, _ := createTestEnv(t)
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Time)
	assert.False(t, resp.ClockSynced)
}
