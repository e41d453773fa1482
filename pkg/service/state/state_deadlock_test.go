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

package state

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestSetMessage_NoDeadlockWithSlowConsumer is a regression test for
// the "hold lock while sending to channel" deadlock bug.
//
// State methods must not hold mu while sending to the Notifications
// channel. If a consumer is slow or the buffer fills up, the sender
// would block while holding the lock and every other state access
// would deadlock behind it.
//
// The fix is the "unlock before notify" pattern: prepare data under
// lock, unlock, then send.
//
// With -tags=deadlock, go-deadlock detects lock ordering violations,
// providing an additional safety net.
func TestSetMessage_NoDeadlockWithSlowConsumer(t *testing.T) {
	t.Parallel()

	st, ns := NewState()

	done := make(chan struct{})
	defer close(done)

	// Slow consumer - drains notifications with delay
	go func() {
		for {
			select {
			case <-ns:
				time.Sleep(5 * time.Millisecond)
			case <-done:
				return
			}
		}
	}()

	// Concurrent writers
	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 20 {
				st.SetMessage(fmt.Sprintf("MESSAGE %d-%d", id, j))
			}
		}(i)
	}

	// Concurrent reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			_, _ = st.Message()
			time.Sleep(time.Millisecond)
		}
	}()

	// Wait with timeout
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		// Success
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock detected: SetMessage blocked while notification channel had backpressure")
	}
}

// TestConcurrentSettingsAccess verifies mixed settings reads and
// writes don't deadlock.
func TestConcurrentSettingsAccess(t *testing.T) {
	t.Parallel()

	st, ns := NewState()

	done := make(chan struct{})
	defer close(done)

	// Drain notifications
	go func() {
		for {
			select {
			case <-ns:
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := range 3 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 50 {
				interval := time.Duration(30+(id*50+j)%470) * time.Millisecond
				st.ApplySettings(interval, "UTC0", "C")
			}
		}(i)
	}

	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = st.ScrollInterval()
				_ = st.TimeZoneSpec()
				_ = st.TemperatureUnit()
				_ = st.ClockSynced()
			}
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		// Success
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock in concurrent settings access")
	}
}
