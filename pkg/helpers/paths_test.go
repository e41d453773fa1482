package helpers

import (
	"testing"

	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/MarqueeProject/marquee-core/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
)

func TestConfigDirFallsBackToPlatform(t *testing.T) {
	t.Parallel()

	platform := mocks.NewMockPlatform()
	platform.On("Settings").Return(platforms.Settings{
		ConfigDir: "/var/lib/marquee/config",
		DataDir:   "/var/lib/marquee/data",
		TempDir:   "/tmp/marquee",
	})

	// No portable "user" directory exists next to the test binary, so
	// the platform paths win.
	assert.Equal(t, "/var/lib/marquee/config", ConfigDir(platform))
	assert.Equal(t, "/var/lib/marquee/data", DataDir(platform))
}

func TestExeDir(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, ExeDir())
}
