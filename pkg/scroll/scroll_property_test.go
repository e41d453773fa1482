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

package scroll

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyAdvanceWindowIsAlwaysFullWidth verifies the visible
// window is exactly the display width for any message and position.
func TestPropertyAdvanceWindowIsAlwaysFullWidth(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		message := rapid.StringMatching(`[ -~]{0,60}`).Draw(t, "message")
		position := rapid.IntRange(-5, len(message)+30).Draw(t, "position")

		visible, _ := Advance(message, position, 20)
		if len(visible) != 20 {
			t.Fatalf("window width %d for message len %d at position %d",
				len(visible), len(message), position)
		}
	})
}

// TestPropertyAdvanceMatchesPaddedSlice verifies in-range positions
// produce the exact slice of the padded message.
func TestPropertyAdvanceMatchesPaddedSlice(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		message := rapid.StringMatching(`[ -~]{0,60}`).Draw(t, "message")
		position := rapid.IntRange(0, len(message)).Draw(t, "position")

		padded := message + strings.Repeat(" ", 20)
		want := padded[position : position+20]

		visible, next := Advance(message, position, 20)
		if visible != want {
			t.Fatalf("expected window %q at position %d, got %q", want, position, visible)
		}
		if next != position+1 {
			t.Fatalf("expected next position %d, got %d", position+1, next)
		}
	})
}

// TestPropertyAdvanceRotationIsPeriodic verifies the window sequence
// repeats after the full rotation of message length plus one.
func TestPropertyAdvanceRotationIsPeriodic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		message := rapid.StringMatching(`[ -~]{0,40}`).Draw(t, "message")

		period := len(message) + 1
		windows := make([]string, 0, period+1)

		pos := 0
		var visible string
		for range period + 1 {
			visible, pos = Advance(message, pos, 20)
			windows = append(windows, visible)
		}

		if windows[0] != windows[period] {
			t.Fatalf("rotation did not repeat after %d steps: first %q, wrapped %q",
				period, windows[0], windows[period])
		}
	})
}

// TestPropertyAdvanceNextPositionInRange verifies the next position
// always lands inside the valid rotation range.
func TestPropertyAdvanceNextPositionInRange(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		message := rapid.StringMatching(`[ -~]{0,60}`).Draw(t, "message")
		position := rapid.IntRange(-5, len(message)+30).Draw(t, "position")

		_, next := Advance(message, position, 20)
		if next < 1 || next > len(message)+1 {
			t.Fatalf("next position %d out of range for message len %d",
				next, len(message))
		}
	})
}
