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

const DefaultNTPHost = "pool.ntp.org"

type Clock struct {
	NTPHost string `toml:"ntp_host,omitempty"`
}

func (c *Instance) NTPHost() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Clock.NTPHost == "" {
		return DefaultNTPHost
	}
	return c.vals.Clock.NTPHost
}
