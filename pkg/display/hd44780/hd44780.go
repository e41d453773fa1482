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

// Package hd44780 drives an HD44780 compatible character panel behind a
// PCF8574 I2C backpack in 4-bit mode.
package hd44780

import (
	"fmt"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PCF8574 backpack pin mapping: P0 RS, P1 RW, P2 EN, P3 backlight,
// P4-P7 D4-D7.
const (
	pinRS        = 0x01
	pinEnable    = 0x04
	pinBacklight = 0x08
)

const (
	cmdClearDisplay = 0x01
	cmdEntryModeSet = 0x06 // increment cursor, no display shift
	cmdDisplayOn    = 0x0c // display on, cursor off, blink off
	cmdFunctionSet  = 0x28 // 4-bit bus, two line mode, 5x8 font
	cmdSetDDRAMAddr = 0x80
)

// rowAddress maps panel rows to DDRAM base addresses. On 20x4 panels
// rows 2 and 3 continue rows 0 and 1 in memory.
var rowAddress = [display.Rows]byte{0x00, 0x40, 0x14, 0x54}

type Options struct {
	// Bus is the I2C bus name. Empty means the first available bus.
	Bus string
	// Address is the 7-bit address of the PCF8574 backpack.
	Address int
}

type Display struct {
	bus i2c.BusCloser
	dev *i2c.Dev
	mu  syncutil.Mutex
}

// Open connects to the panel and runs the HD44780 initialization by
// instruction sequence.
func Open(opts Options) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(opts.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus: %w", err)
	}

	d := &Display{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: uint16(opts.Address)}, //nolint:gosec // 7-bit address
	}

	if err := d.init(); err != nil {
		_ = bus.Close()
		return nil, err
	}

	log.Info().Str("bus", bus.String()).Int("address", opts.Address).
		Msg("hd44780 display connected")

	return d, nil
}

func (d *Display) init() error {
	// Controller needs time after power on before accepting commands.
	time.Sleep(50 * time.Millisecond)

	// Force 8-bit mode three times, then drop to 4-bit. This recovers
	// the bus whatever half-state the controller was left in.
	for range 3 {
		if err := d.writeNibble(0x30, 0); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := d.writeNibble(0x20, 0); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)

	for _, cmd := range []byte{
		cmdFunctionSet,
		cmdDisplayOn,
		cmdEntryModeSet,
		cmdClearDisplay,
	} {
		if err := d.command(cmd); err != nil {
			return err
		}
	}
	// Clear takes longer than other commands.
	time.Sleep(2 * time.Millisecond)

	return nil
}

// writeNibble puts the high nibble of value on D4-D7 and pulses EN.
func (d *Display) writeNibble(value, flags byte) error {
	data := (value & 0xf0) | flags | pinBacklight

	if err := d.dev.Tx([]byte{data | pinEnable}, nil); err != nil {
		return fmt.Errorf("failed to write i2c data: %w", err)
	}
	if err := d.dev.Tx([]byte{data}, nil); err != nil {
		return fmt.Errorf("failed to write i2c data: %w", err)
	}
	return nil
}

func (d *Display) writeByte(value, flags byte) error {
	if err := d.writeNibble(value, flags); err != nil {
		return err
	}
	return d.writeNibble(value<<4, flags)
}

func (d *Display) command(cmd byte) error {
	if err := d.writeByte(cmd, 0); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return nil
}

func (d *Display) writeData(b byte) error {
	return d.writeByte(b, pinRS)
}

func (d *Display) WriteRow(row int, text string) error {
	if row < 0 || row >= display.Rows {
		return fmt.Errorf("display row %d out of range", row)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.command(cmdSetDDRAMAddr | rowAddress[row]); err != nil {
		return err
	}

	for i := 0; i < len(text) && i < display.Cols; i++ {
		if err := d.writeData(text[i]); err != nil {
			return err
		}
	}
	return nil
}

// Close blanks the panel, drops the backlight and releases the bus.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.command(cmdClearDisplay); err != nil {
		log.Warn().Err(err).Msg("failed to clear display on close")
	}
	if err := d.dev.Tx([]byte{0x00}, nil); err != nil {
		log.Warn().Err(err).Msg("failed to drop backlight on close")
	}

	if err := d.bus.Close(); err != nil {
		return fmt.Errorf("failed to close i2c bus: %w", err)
	}
	return nil
}
