//go:build linux

/*
Marquee Core
Copyright (C) 2025, 2026 The Marquee Project Contributors

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

package linux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/display/hd44780"
	"github.com/MarqueeProject/marquee-core/pkg/display/serlcd"
	"github.com/MarqueeProject/marquee-core/pkg/display/virtual"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/adrg/xdg"
)

type Platform struct{}

func (*Platform) ID() string {
	return platforms.PlatformIDLinux
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
	}
}

func (*Platform) StartPre(_ *config.Instance) error {
	return nil
}

func (*Platform) StartPost(_ *config.Instance) error {
	return nil
}

func (*Platform) Stop() error {
	return nil
}

// OpenDisplay opens the display backend selected in the config file. All
// backends are available on Linux, including the I2C one which needs a
// real bus device.
func (*Platform) OpenDisplay(cfg *config.Instance) (display.Output, error) {
	switch backend := cfg.DisplayBackend(); backend {
	case config.DisplayBackendVirtual:
		return virtual.New(), nil
	case config.DisplayBackendI2C:
		return hd44780.Open(hd44780.Options{
			Bus:     cfg.DisplayI2CBus(),
			Address: cfg.DisplayI2CAddress(),
		})
	case config.DisplayBackendSerLCD:
		return serlcd.Open(cfg.DisplaySerialDevice())
	default:
		return nil, fmt.Errorf("unknown display backend: %s", backend)
	}
}
