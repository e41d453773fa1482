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

// Package display drives a fixed 20x4 character display through
// pluggable output backends. The driver keeps a shadow buffer of the
// panel and only pushes rows that actually changed, so callers can
// rewrite the whole frame every pass without flooding the bus.
package display

import (
	"fmt"
	"strings"

	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
)

const (
	// Cols and Rows are the fixed dimensions of the panel.
	Cols = 20
	Rows = 4

	// TimeFieldWidth is the width of the clock field in the top right
	// corner of the display.
	TimeFieldWidth = 5
)

// Output is a physical or virtual display a Driver renders to. Backends
// receive full rows already fitted to the panel width.
type Output interface {
	// WriteRow replaces the contents of a row. The text is always
	// exactly Cols bytes.
	WriteRow(row int, text string) error
	// Close releases the underlying device.
	Close() error
}

// Fit clips or right-pads text to exactly width bytes.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) > width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

// PadLeft clips or left-pads text to exactly width bytes.
func PadLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) > width {
		return text[:width]
	}
	return strings.Repeat(" ", width-len(text)) + text
}

// Driver buffers the panel contents and flushes changed rows to a
// backend. It is safe for concurrent use.
type Driver struct {
	backend Output
	rows    [Rows]string
	mu      syncutil.Mutex
}

func NewDriver(backend Output) *Driver {
	d := &Driver{backend: backend}
	for i := range d.rows {
		d.rows[i] = strings.Repeat(" ", Cols)
	}
	return d
}

// WriteRow fits text to the panel width and writes it to the given row.
// Rows that already show the same text are not pushed to the backend.
// The shadow buffer is only updated after a successful write, so a
// failed row is retried on the next pass.
func (d *Driver) WriteRow(row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("display row %d out of range", row)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	line := Fit(text, Cols)
	if d.rows[row] == line {
		return nil
	}

	if err := d.backend.WriteRow(row, line); err != nil {
		return fmt.Errorf("failed to write display row %d: %w", row, err)
	}
	d.rows[row] = line
	return nil
}

// WriteTimeField right-aligns text into the last TimeFieldWidth columns
// of the top row, leaving the rest of the row untouched.
func (d *Driver) WriteTimeField(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	field := PadLeft(text, TimeFieldWidth)
	line := d.rows[0][:Cols-TimeFieldWidth] + field
	if d.rows[0] == line {
		return nil
	}

	if err := d.backend.WriteRow(0, line); err != nil {
		return fmt.Errorf("failed to write display time field: %w", err)
	}
	d.rows[0] = line
	return nil
}

// Clear blanks every row of the panel.
func (d *Driver) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	blank := strings.Repeat(" ", Cols)
	for row := range d.rows {
		if d.rows[row] == blank {
			continue
		}
		if err := d.backend.WriteRow(row, blank); err != nil {
			return fmt.Errorf("failed to clear display row %d: %w", row, err)
		}
		d.rows[row] = blank
	}
	return nil
}

// Rows returns a snapshot of the current panel contents.
func (d *Driver) Rows() [Rows]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows
}

func (d *Driver) Close() error {
	if err := d.backend.Close(); err != nil {
		return fmt.Errorf("failed to close display backend: %w", err)
	}
	return nil
}
