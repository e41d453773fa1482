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

package state

import (
	"context"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/api/notifications"
	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
	"github.com/MarqueeProject/marquee-core/pkg/settings"
)

// State holds the runtime state of the marquee service.
//
// LOCKING RULES: The mu mutex protects all mutable fields. To prevent deadlocks:
//   - Never send to channels while holding the lock (notifications)
//   - Pattern: lock → modify state → copy needed data → unlock → send notifications
//
// See SetMessage and ApplySettings for examples.
type State struct {
	ctx             context.Context
	ctxCancelFunc   context.CancelFunc
	Notifications   chan<- models.Notification
	message         string
	timeZoneSpec    string
	temperatureUnit string
	scrollInterval  time.Duration
	messageSeq      uint64
	mu              syncutil.RWMutex
	clockSynced     bool
	stopService     bool
}

// NewState creates the service state with persisted-settings defaults
// and returns the channel state change notifications are sent on.
func NewState() (state *State, notificationCh <-chan models.Notification) {
	// Buffered so a burst of updates can't block HTTP handlers while
	// the broker catches up.
	ns := make(chan models.Notification, 500)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		timeZoneSpec:    settings.DefaultTimeZoneSpec,
		temperatureUnit: settings.DefaultTemperatureUnit,
		scrollInterval:  time.Duration(settings.DefaultScrollInterval) * time.Millisecond,
		Notifications:   ns,
		ctx:             ctx,
		ctxCancelFunc:   ctxCancelFunc,
	}, ns
}

// SetMessage replaces the marquee text and bumps the message sequence
// so the render loop restarts the scroll, even when the same text is
// posted again.
func (s *State) SetMessage(text string) {
	s.mu.Lock()
	s.message = text
	s.messageSeq++
	s.mu.Unlock()

	// Send notification outside lock to prevent deadlock
	notifications.DisplayUpdated(s.Notifications, text)
}

// Message returns the marquee text and its sequence number. The
// sequence changes on every SetMessage call.
func (s *State) Message() (text string, seq uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message, s.messageSeq
}

// ApplySettings updates the live display settings. The scroll engine
// picks up the new interval on its next pass.
func (s *State) ApplySettings(interval time.Duration, tzSpec, tempUnit string) {
	s.mu.Lock()
	s.scrollInterval = interval
	s.timeZoneSpec = tzSpec
	s.temperatureUnit = tempUnit

	// Prepare notification payload inside lock, send outside
	payload := models.SettingsUpdatedParams{
		TimeZoneSpec:     tzSpec,
		TemperatureUnit:  tempUnit,
		ScrollIntervalMS: int(interval / time.Millisecond),
	}
	s.mu.Unlock()

	notifications.SettingsUpdated(s.Notifications, payload)
}

func (s *State) ScrollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrollInterval
}

func (s *State) TimeZoneSpec() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeZoneSpec
}

func (s *State) TemperatureUnit() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.temperatureUnit
}

func (s *State) SetClockSynced(synced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clockSynced = synced
}

func (s *State) ClockSynced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clockSynced
}

// StopService flags the service to shut down and cancels the state
// context.
func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

func (s *State) Stopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

func (s *State) GetContext() context.Context {
	return s.ctx
}
