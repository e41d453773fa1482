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

// Package virtual implements an in-memory display backend for
// development and testing on machines without a panel attached.
package virtual

import (
	"fmt"
	"strings"

	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

type Display struct {
	rows [display.Rows]string
	mu   syncutil.RWMutex
}

func New() *Display {
	d := &Display{}
	for i := range d.rows {
		d.rows[i] = strings.Repeat(" ", display.Cols)
	}
	return d
}

func (d *Display) WriteRow(row int, text string) error {
	if row < 0 || row >= display.Rows {
		return fmt.Errorf("display row %d out of range", row)
	}

	d.mu.Lock()
	d.rows[row] = text
	d.mu.Unlock()

	log.Debug().Int("row", row).Str("text", text).Msg("virtual display write")
	return nil
}

func (*Display) Close() error {
	return nil
}

// Snapshot returns the current panel contents.
func (d *Display) Snapshot() [display.Rows]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rows
}
