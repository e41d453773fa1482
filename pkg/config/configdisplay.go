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

package config

const (
	DisplayBackendVirtual = "virtual"
	DisplayBackendI2C     = "i2c"
	DisplayBackendSerLCD  = "serlcd"

	// DefaultI2CAddress is the PCF8574 backpack address most 20x4
	// character modules ship with.
	DefaultI2CAddress = 0x27
)

type Display struct {
	Backend      string `toml:"backend,omitempty"`
	I2CBus       string `toml:"i2c_bus,omitempty"`
	SerialDevice string `toml:"serial_device,omitempty"`
	I2CAddress   *int   `toml:"i2c_address,omitempty"`
}

// KnownDisplayBackend reports whether name matches a supported display
// backend.
func KnownDisplayBackend(name string) bool {
	switch name {
	case DisplayBackendVirtual, DisplayBackendI2C, DisplayBackendSerLCD:
		return true
	default:
		return false
	}
}

func (c *Instance) DisplayBackend() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Display.Backend == "" {
		return DisplayBackendVirtual
	}
	return c.vals.Display.Backend
}

// DisplayI2CBus returns the configured I2C bus name. An empty string
// means the first available bus.
func (c *Instance) DisplayI2CBus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.I2CBus
}

func (c *Instance) DisplayI2CAddress() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Display.I2CAddress == nil {
		return DefaultI2CAddress
	}
	return *c.vals.Display.I2CAddress
}

func (c *Instance) DisplaySerialDevice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.SerialDevice
}
