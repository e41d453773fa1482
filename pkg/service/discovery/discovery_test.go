// Marquee Core
// Copyright (c) 2026 The Marquee Project Contributors.
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

package discovery

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	assert.NotNil(t, svc)
	assert.Empty(t, svc.InstanceName(), "instance name is resolved on Start")
}

func TestServiceType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "_marquee._tcp", ServiceType)
}

func TestStopIdempotent(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	// Stop should be safe to call multiple times even when not started
	svc.Stop()
	svc.Stop()
	svc.Stop()

	// No panic means success
	assert.Nil(t, svc.server)
}

func TestFilterInterfaces(t *testing.T) {
	t.Parallel()

	usable := net.FlagUp | net.FlagMulticast

	ifaces := []net.Interface{
		{Name: "eth0", Flags: usable},
		{Name: "lo", Flags: usable | net.FlagLoopback},
		{Name: "eth1", Flags: net.FlagMulticast}, // down
		{Name: "wlan0", Flags: net.FlagUp},       // no multicast
		{Name: "docker0", Flags: usable},
		{Name: "veth12ab", Flags: usable},
	}

	got := filterInterfaces(ifaces)

	names := make([]string, len(got))
	for i, iface := range got {
		names[i] = iface.Name
	}
	assert.Equal(t, []string{"eth0"}, names)
}

func TestIsVirtualInterface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		iface string
		want  bool
	}{
		{"physical ethernet", "eth0", false},
		{"wireless", "wlan0", false},
		{"docker bridge", "docker0", true},
		{"bridge", "br-4f1a", true},
		{"veth pair", "veth9c21", true},
		{"wireguard", "wg0", true},
		{"uppercase still matches", "DOCKER0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, isVirtualInterface(tt.iface))
		})
	}
}
