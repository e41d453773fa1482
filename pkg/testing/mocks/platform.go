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

package mocks

import (
	"fmt"

	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/display/virtual"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using testify/mock
type MockPlatform struct {
	mock.Mock
}

// ID returns the unique ID of this platform
func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

// Settings returns all simple platform-specific settings such as paths
func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if settings, ok := args.Get(0).(platforms.Settings); ok {
		return settings
	}
	return platforms.Settings{}
}

// StartPre runs any necessary platform setup BEFORE the main service has started running
func (m *MockPlatform) StartPre(cfg *config.Instance) error {
	args := m.Called(cfg)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform start pre failed: %w", err)
	}
	return nil
}

// StartPost runs any necessary platform setup AFTER the main service has started running
func (m *MockPlatform) StartPost(cfg *config.Instance) error {
	args := m.Called(cfg)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform start post failed: %w", err)
	}
	return nil
}

// Stop runs any necessary cleanup tasks before the rest of the service starts shutting down
func (m *MockPlatform) Stop() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock platform stop failed: %w", err)
	}
	return nil
}

// OpenDisplay opens the display output configured for this platform
func (m *MockPlatform) OpenDisplay(cfg *config.Instance) (display.Output, error) {
	args := m.Called(cfg)
	out, _ := args.Get(0).(display.Output)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock platform open display failed: %w", err)
	}
	return out, nil
}

// NewMockPlatform creates a new MockPlatform instance
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{}
}

// SetupBasicMock configures the mock with typical default values for basic operations
func (m *MockPlatform) SetupBasicMock() {
	m.On("ID").Return("mock-platform")
	m.On("Settings").Return(platforms.Settings{})
	m.On("StartPre", mock.AnythingOfType("*config.Instance")).Return(nil)
	m.On("StartPost", mock.AnythingOfType("*config.Instance")).Return(nil)
	m.On("Stop").Return(nil)
	m.On("OpenDisplay", mock.AnythingOfType("*config.Instance")).Return(virtual.New(), nil)
}
