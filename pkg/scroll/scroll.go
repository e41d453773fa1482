/*
Marquee Core
Copyright (c) 2025 The Marquee Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of Marquee Core.

Marquee Core is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Marquee Core is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Marquee Core.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package scroll rotates a marquee message through a fixed character
// window. Messages are treated as byte sequences to match the single
// byte cells of a character LCD.
package scroll

import (
	"strings"
	"time"
)

// Advance returns the window of the message visible at position and the
// position for the next step. The message is padded with a window's
// worth of trailing spaces so the tail scrolls fully off before the
// text wraps around. A position past the padded range restarts the
// rotation from the beginning.
func Advance(message string, position, width int) (string, int) {
	if width <= 0 {
		return "", 0
	}

	padded := message + strings.Repeat(" ", width)
	if position < 0 || position > len(padded)-width {
		position = 0
	}

	visible := padded[position : position+width]
	return visible, position + 1
}

// Ticker holds the scroll state for one display row and advances it at
// a configurable interval. It is not safe for concurrent use; the
// render loop owns it.
type Ticker struct {
	last     time.Time
	message  string
	visible  string
	interval time.Duration
	position int
	width    int
}

func NewTicker(width int, interval time.Duration) *Ticker {
	return &Ticker{
		width:    width,
		interval: interval,
		visible:  strings.Repeat(" ", width),
	}
}

// Tick advances the rotation if at least one interval has elapsed since
// the last advance, then returns the currently visible window.
func (t *Ticker) Tick(now time.Time) string {
	if t.last.IsZero() || now.Sub(t.last) >= t.interval {
		t.visible, t.position = Advance(t.message, t.position, t.width)
		t.last = now
	}
	return t.visible
}

// SetMessage replaces the message and restarts the rotation from the
// start on the next tick.
func (t *Ticker) SetMessage(message string) {
	t.message = message
	t.position = 0
	t.last = time.Time{}
}

// SetInterval changes the advance cadence. It takes effect when the
// next tick is due.
func (t *Ticker) SetInterval(interval time.Duration) {
	t.interval = interval
}

func (t *Ticker) Message() string {
	return t.message
}

func (t *Ticker) Interval() time.Duration {
	return t.interval
}
