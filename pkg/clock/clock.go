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

// Package clock keeps wall clock time for the display without trusting
// the local system clock. Time comes from an NTP server and is carried
// forward between syncs, with the configured time zone applied on read.
package clock

import (
	"fmt"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// resyncInterval is how long a sync result is trusted before a fresh
// NTP query is scheduled.
const resyncInterval = 12 * time.Hour

// Source is a clock the display can read. Read reports ok false until
// the source has a valid time, for example before the first NTP
// response has arrived.
type Source interface {
	Configure(spec string) error
	Read() (hour, minute int, ok bool)
}

// NTPSource synchronizes against an NTP host in the background and
// extrapolates between syncs using the local monotonic clock.
type NTPSource struct {
	clock    clockwork.Clock
	queryFn  func(host string) (time.Time, error)
	zone     *Zone
	utc      time.Time
	syncedAt time.Time
	host     string
	mu       syncutil.RWMutex
	synced   bool
	syncing  bool
}

// NewNTPSource creates a source that queries the given host. A nil
// clock means the real one.
func NewNTPSource(host string, clock clockwork.Clock) *NTPSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &NTPSource{
		host:  host,
		clock: clock,
		queryFn: func(host string) (time.Time, error) {
			t, err := ntp.Time(host)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to query ntp host: %w", err)
			}
			return t, nil
		},
	}
}

// Configure sets the time zone and kicks off a background sync. It
// returns without waiting for the sync to finish; callers that need a
// valid time afterwards should poll with WaitForSync.
func (s *NTPSource) Configure(spec string) error {
	zone, err := ParseSpec(spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.zone = zone
	s.mu.Unlock()

	log.Info().Str("spec", spec).Msg("time zone configured")
	s.requestSync()
	return nil
}

// Read returns the current local hour and minute, or ok false if no
// sync has completed yet. A stale sync schedules a refresh but the
// last known time keeps being served in the meantime.
func (s *NTPSource) Read() (hour, minute int, ok bool) {
	s.mu.RLock()
	if !s.synced || s.zone == nil {
		s.mu.RUnlock()
		return 0, 0, false
	}
	elapsed := s.clock.Now().Sub(s.syncedAt)
	now := s.utc.Add(elapsed)
	hour, minute = s.zone.Clock(now)
	s.mu.RUnlock()

	if elapsed >= resyncInterval {
		s.requestSync()
	}
	return hour, minute, true
}

// Now returns the synchronized local time, for status reporting.
func (s *NTPSource) Now() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.synced || s.zone == nil {
		return time.Time{}, false
	}
	now := s.utc.Add(s.clock.Now().Sub(s.syncedAt))
	return s.zone.localize(now), true
}

// Synced reports whether an NTP sync has completed.
func (s *NTPSource) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// requestSync starts a background sync unless one is already running.
func (s *NTPSource) requestSync() {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()

	go s.sync()
}

func (s *NTPSource) sync() {
	t, err := s.queryFn(s.host)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if err != nil {
		log.Warn().Err(err).Str("host", s.host).Msg("ntp sync failed")
		return
	}

	s.utc = t.UTC()
	s.syncedAt = s.clock.Now()
	s.synced = true
	log.Debug().Str("host", s.host).Time("utc", s.utc).Msg("ntp sync complete")
}
