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

package helpers

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/MarqueeProject/marquee-core/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupDirs bool
	}{
		{name: "creates directories", setupDirs: false},
		{name: "works when directories already exist", setupDirs: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			testRoot := t.TempDir()
			configDir := filepath.Join(testRoot, "config", "nested")
			dataDir := filepath.Join(testRoot, "data", "nested")
			tempDir := filepath.Join(testRoot, "temp", "nested")

			if tt.setupDirs {
				require.NoError(t, os.MkdirAll(configDir, 0o750))
				require.NoError(t, os.MkdirAll(dataDir, 0o750))
				require.NoError(t, os.MkdirAll(tempDir, 0o750))
			}

			platform := mocks.NewMockPlatform()
			platform.On("Settings").Return(platforms.Settings{
				ConfigDir: configDir,
				DataDir:   dataDir,
				TempDir:   tempDir,
			})

			require.NoError(t, EnsureDirectories(platform))

			for _, dir := range []string{configDir, dataDir, tempDir} {
				info, err := os.Stat(dir)
				require.NoError(t, err, "%s should exist", dir)
				assert.True(t, info.IsDir())
				if runtime.GOOS != "windows" {
					assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
				}
			}
		})
	}
}

func TestEnsureDirectoriesErrorHandling(t *testing.T) {
	t.Parallel()

	platform := mocks.NewMockPlatform()
	platform.On("Settings").Return(platforms.Settings{
		ConfigDir: t.TempDir(),
		DataDir:   t.TempDir(),
		TempDir:   "/proc/invalid\x00path", // null byte makes it invalid
	})

	err := EnsureDirectories(platform)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestInitLogging(t *testing.T) {
	// Note: Cannot use t.Parallel() because InitLogging modifies global log.Logger

	t.Run("creates temp dir for the log file", func(t *testing.T) {
		testRoot := t.TempDir()
		tempDir := filepath.Join(testRoot, "temp")

		platform := mocks.NewMockPlatform()
		platform.On("Settings").Return(platforms.Settings{
			ConfigDir: filepath.Join(testRoot, "config"),
			DataDir:   filepath.Join(testRoot, "data"),
			TempDir:   tempDir,
		})

		require.NoError(t, InitLogging(platform, nil))

		// Note: the log file itself is created lazily by lumberjack on
		// the first write, so only the directory is checked here.
		info, err := os.Stat(tempDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("works with additional writers", func(t *testing.T) {
		testRoot := t.TempDir()

		platform := mocks.NewMockPlatform()
		platform.On("Settings").Return(platforms.Settings{
			ConfigDir: filepath.Join(testRoot, "config"),
			DataDir:   filepath.Join(testRoot, "data"),
			TempDir:   filepath.Join(testRoot, "temp"),
		})

		require.NoError(t, InitLogging(platform, []io.Writer{&testWriter{}}))
	})
}

// testWriter is a no-op io.Writer for testing
type testWriter struct{}

func (*testWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func TestInitLoggingIntegration(t *testing.T) {
	// Note: Cannot use t.Parallel() because InitLogging modifies global log.Logger

	t.Run("full startup sequence", func(t *testing.T) {
		testRoot := t.TempDir()
		platform := mocks.NewMockPlatform()
		platform.On("Settings").Return(platforms.Settings{
			ConfigDir: filepath.Join(testRoot, "config"),
			DataDir:   filepath.Join(testRoot, "data"),
			TempDir:   filepath.Join(testRoot, "temp"),
		})

		// Step 1: Ensure directories (as done in cli.Setup)
		require.NoError(t, EnsureDirectories(platform))

		// Step 2: Initialize logging (as done in cli.Setup)
		require.NoError(t, InitLogging(platform, nil))

		for _, dir := range []string{
			platform.Settings().ConfigDir,
			platform.Settings().DataDir,
			platform.Settings().TempDir,
		} {
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	})
}
