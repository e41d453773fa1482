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

// Package serlcd drives a SparkFun SerLCD character panel over a serial
// port.
package serlcd

import (
	"errors"
	"fmt"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	// settingCommand prefixes SerLCD specific settings.
	settingCommand = 0x7c
	// specialCommand prefixes raw HD44780 commands.
	specialCommand = 0xfe

	clearCommand    = 0x2d
	cmdSetDDRAMAddr = 0x80
)

var rowAddress = [display.Rows]byte{0x00, 0x40, 0x14, 0x54}

type Display struct {
	port serial.Port
	path string
	mu   syncutil.Mutex
}

// Open connects to the panel at the given serial device path.
func Open(device string) (*Display, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	d := &Display{port: port, path: device}

	if err := d.clear(); err != nil {
		_ = port.Close()
		return nil, err
	}

	log.Info().Str("device", device).Msg("serlcd display connected")

	return d, nil
}

func (d *Display) clear() error {
	if _, err := d.port.Write([]byte{settingCommand, clearCommand}); err != nil {
		return fmt.Errorf("failed to clear display: %w", err)
	}
	// The panel needs a moment to process a clear.
	time.Sleep(10 * time.Millisecond)
	return nil
}

func (d *Display) WriteRow(row int, text string) error {
	if row < 0 || row >= display.Rows {
		return fmt.Errorf("display row %d out of range", row)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	frame := make([]byte, 0, display.Cols+2)
	frame = append(frame, specialCommand, cmdSetDDRAMAddr|rowAddress[row])
	for i := 0; i < len(text) && i < display.Cols; i++ {
		frame = append(frame, text[i])
	}

	if _, err := d.port.Write(frame); err != nil {
		if isDisconnectionError(err) {
			return fmt.Errorf("serlcd device %s disconnected: %w", d.path, err)
		}
		return fmt.Errorf("failed to write to port: %w", err)
	}
	return nil
}

func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear display on close")
	}

	if err := d.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// isDisconnectionError checks if an error indicates device disconnection.
func isDisconnectionError(err error) bool {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
			return true
		default:
			return false
		}
	}
	return false
}
