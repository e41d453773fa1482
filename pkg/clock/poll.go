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
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// SyncPollAttempts and SyncPollInterval bound how long a config
	// change waits for the clock to come up before giving up.
	SyncPollAttempts = 10
	SyncPollInterval = 500 * time.Millisecond
)

// WaitForSync polls src until it reports a valid time, making at most
// attempts reads spaced interval apart. It returns ok false if every
// attempt came back empty or the context was canceled first. The
// source keeps syncing in the background either way, so a false result
// only means the time wasn't ready yet.
func WaitForSync(
	ctx context.Context,
	src Source,
	clk clockwork.Clock,
	attempts int,
	interval time.Duration,
) (hour, minute int, ok bool) {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	for i := 0; i < attempts; i++ {
		hour, minute, ok = src.Read()
		if ok {
			return hour, minute, true
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return 0, 0, false
		case <-clk.After(interval):
		}
	}

	return 0, 0, false
}
