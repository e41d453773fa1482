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

package platforms

import (
	"errors"

	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
)

var ErrNotSupported = errors.New("operation not supported on this platform")

const (
	PlatformIDLinux = "linux"
	PlatformIDMac   = "mac"
)

// Settings are simple platform-specific values such as paths.
type Settings struct {
	// DataDir is the root folder where the settings database and any
	// other permanent state is stored. WARNING: This value should be
	// accessed using the DataDir function in the helpers package.
	DataDir string
	// ConfigDir is the directory where the config file is stored.
	// WARNING: This value should be accessed using the ConfigDir
	// function in the helpers package.
	ConfigDir string
	// TempDir is a temporary directory where the logs are stored.
	// Expect it to be deleted.
	TempDir string
}

// Platform is the central interface that defines how Core interacts
// with a supported platform.
type Platform interface {
	// ID returns the unique ID of this platform.
	ID() string
	// Settings returns all simple platform-specific settings.
	// NOTE: Path values on the Settings struct should be accessed using
	// the helper functions in the helpers package instead of directly.
	Settings() Settings
	// StartPre runs any necessary platform setup BEFORE the main
	// service has started running.
	StartPre(*config.Instance) error
	// StartPost runs any necessary platform setup AFTER the main
	// service has started running.
	StartPost(*config.Instance) error
	// Stop runs any necessary cleanup tasks before the rest of the
	// service starts shutting down.
	Stop() error
	// OpenDisplay opens the display output configured for this
	// platform. Backends not available on a platform return an error.
	OpenDisplay(*config.Instance) (display.Output, error)
}
