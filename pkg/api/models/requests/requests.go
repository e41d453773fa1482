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

package requests

import (
	"github.com/MarqueeProject/marquee-core/pkg/clock"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/MarqueeProject/marquee-core/pkg/service/state"
	"github.com/MarqueeProject/marquee-core/pkg/settings"
	"github.com/jonboulle/clockwork"
)

// RequestEnv bundles the service dependencies API handlers act on.
type RequestEnv struct {
	Platform platforms.Platform
	Config   *config.Instance
	State    *state.State
	Settings *settings.Store
	Clock    clock.Source
	Display  *display.Driver
	// PollClock drives the bounded wait for clock sync after a config
	// change. nil means the real clock.
	PollClock clockwork.Clock
}
