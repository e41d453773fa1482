//go:build linux

package linux

import (
	"path/filepath"
	"testing"

	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/display/virtual"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, defaults config.Values) *config.Instance {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)
	return cfg
}

func TestPlatformID(t *testing.T) {
	t.Parallel()

	platform := &Platform{}
	assert.Equal(t, platforms.PlatformIDLinux, platform.ID())
}

func TestSettingsDirsScopedToApp(t *testing.T) {
	t.Parallel()

	settings := (&Platform{}).Settings()

	assert.Equal(t, config.AppName, filepath.Base(settings.DataDir))
	assert.Equal(t, config.AppName, filepath.Base(settings.ConfigDir))
	assert.Equal(t, config.AppName, filepath.Base(settings.TempDir))
}

func TestLifecycleHooksAreNoOps(t *testing.T) {
	t.Parallel()

	platform := &Platform{}
	cfg := newTestConfig(t, config.BaseDefaults)

	require.NoError(t, platform.StartPre(cfg))
	require.NoError(t, platform.StartPost(cfg))
	require.NoError(t, platform.Stop())
}

func TestOpenDisplayVirtual(t *testing.T) {
	t.Parallel()

	defaults := config.BaseDefaults
	defaults.Display.Backend = config.DisplayBackendVirtual
	cfg := newTestConfig(t, defaults)

	out, err := (&Platform{}).OpenDisplay(cfg)
	require.NoError(t, err)

	screen, ok := out.(*virtual.Display)
	require.True(t, ok, "virtual backend should return a virtual display")

	require.NoError(t, screen.WriteRow(0, "NOW SHOWING"))
	rows := screen.Snapshot()
	assert.Equal(t, display.Fit("NOW SHOWING", display.Cols), rows[0])
}

func TestOpenDisplayDefaultsToVirtual(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, config.BaseDefaults)

	out, err := (&Platform{}).OpenDisplay(cfg)
	require.NoError(t, err)
	_, ok := out.(*virtual.Display)
	assert.True(t, ok)
}

func TestOpenDisplaySerLCDMissingDevice(t *testing.T) {
	t.Parallel()

	defaults := config.BaseDefaults
	defaults.Display.Backend = config.DisplayBackendSerLCD
	defaults.Display.SerialDevice = filepath.Join(t.TempDir(), "ttyUSB9")
	cfg := newTestConfig(t, defaults)

	_, err := (&Platform{}).OpenDisplay(cfg)
	require.Error(t, err)
}

func TestOpenDisplayUnknownBackend(t *testing.T) {
	t.Parallel()

	defaults := config.BaseDefaults
	defaults.Display.Backend = "nixie"
	cfg := newTestConfig(t, defaults)

	_, err := (&Platform{}).OpenDisplay(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown display backend")
}
