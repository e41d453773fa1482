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

package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource reports no time until a set number of reads have happened.
type stubSource struct {
	mu      sync.Mutex
	reads   int
	okAfter int
	hour    int
	minute  int
}

func (s *stubSource) Configure(string) error { return nil }

func (s *stubSource) Read() (int, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.okAfter > 0 && s.reads >= s.okAfter {
		return s.hour, s.minute, true
	}
	return 0, 0, false
}

func (s *stubSource) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

type pollResult struct {
	hour   int
	minute int
	ok     bool
}

// startPoll runs WaitForSync in the background and returns its result
// channel.
func startPoll(
	ctx context.Context,
	src Source,
	clk clockwork.Clock,
) <-chan pollResult {
	resCh := make(chan pollResult, 1)
	go func() {
		h, m, ok := WaitForSync(ctx, src, clk, SyncPollAttempts, SyncPollInterval)
		resCh <- pollResult{hour: h, minute: m, ok: ok}
	}()
	return resCh
}

func waitPoll(t *testing.T, resCh <-chan pollResult) pollResult {
	t.Helper()
	select {
	case res := <-resCh:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poll result")
		return pollResult{}
	}
}

func TestWaitForSync_FirstAttempt(t *testing.T) {
	t.Parallel()

	src := &stubSource{okAfter: 1, hour: 13, minute: 47}

	hour, minute, ok := WaitForSync(
		t.Context(), src, clockwork.NewFakeClock(),
		SyncPollAttempts, SyncPollInterval,
	)
	require.True(t, ok, "poll should succeed on the first read")
	assert.Equal(t, 13, hour)
	assert.Equal(t, 47, minute)
	assert.Equal(t, 1, src.readCount(), "no further reads after success")
}

func TestWaitForSync_SucceedsOnLaterAttempt(t *testing.T) {
	t.Parallel()

	fakeClock := clockwork.NewFakeClock()
	src := &stubSource{okAfter: 4, hour: 9, minute: 5}
	ctx := t.Context()

	resCh := startPoll(ctx, src, fakeClock)

	for i := 0; i < 3; i++ {
		err := fakeClock.BlockUntilContext(ctx, 1)
		require.NoError(t, err)
		fakeClock.Advance(SyncPollInterval)
	}

	res := waitPoll(t, resCh)
	require.True(t, res.ok, "poll should succeed once the source syncs")
	assert.Equal(t, 9, res.hour)
	assert.Equal(t, 5, res.minute)
	assert.Equal(t, 4, src.readCount())
}

func TestWaitForSync_GivesUpAfterAllAttempts(t *testing.T) {
	t.Parallel()

	fakeClock := clockwork.NewFakeClock()
	src := &stubSource{}
	ctx := t.Context()

	resCh := startPoll(ctx, src, fakeClock)

	for i := 0; i < SyncPollAttempts-1; i++ {
		err := fakeClock.BlockUntilContext(ctx, 1)
		require.NoError(t, err)
		fakeClock.Advance(SyncPollInterval)
	}

	res := waitPoll(t, resCh)
	assert.False(t, res.ok, "poll should give up when the source never syncs")
	assert.Equal(t, SyncPollAttempts, src.readCount(),
		"every attempt should read exactly once")
}

func TestWaitForSync_ContextCanceled(t *testing.T) {
	t.Parallel()

	fakeClock := clockwork.NewFakeClock()
	src := &stubSource{}
	ctx, cancel := context.WithCancel(t.Context())

	resCh := startPoll(ctx, src, fakeClock)

	err := fakeClock.BlockUntilContext(ctx, 1)
	require.NoError(t, err)
	cancel()

	res := waitPoll(t, resCh)
	assert.False(t, res.ok, "canceled poll should report no time")
	assert.Equal(t, 1, src.readCount())
}

func TestWaitForSync_NilClock(t *testing.T) {
	t.Parallel()

	src := &stubSource{okAfter: 1, hour: 7, minute: 30}

	// A nil clock falls back to the real one, which is fine when the
	// first read already succeeds.
	hour, minute, ok := WaitForSync(t.Context(), src, nil, 1, SyncPollInterval)
	require.True(t, ok)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 30, minute)
}
