//go:build darwin

package mac

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/display/serlcd"
	"github.com/MarqueeProject/marquee-core/pkg/display/virtual"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/adrg/xdg"
)

type Platform struct{}

func (*Platform) ID() string {
	return platforms.PlatformIDMac
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

// OpenDisplay opens the display backend selected in the config file.
// There is no I2C bus to speak of on a Mac, so that backend is refused
// here rather than failing somewhere deep in the bus scan.
func (*Platform) OpenDisplay(cfg *config.Instance) (display.Output, error) {
	switch backend := cfg.DisplayBackend(); backend {
	case config.DisplayBackendVirtual:
		return virtual.New(), nil
	case config.DisplayBackendI2C:
		return nil, fmt.Errorf("i2c display backend: %w", platforms.ErrNotSupported)
	case config.DisplayBackendSerLCD:
		return serlcd.Open(cfg.DisplaySerialDevice())
	default:
		return nil, fmt.Errorf("unknown display backend: %s", backend)
	}
}
