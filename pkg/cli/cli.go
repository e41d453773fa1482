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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarqueeProject/marquee-core/pkg/api/client"
	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/helpers"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Write   *string
	Status  *bool
	Follow  *bool
	Version *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		Write: flag.String(
			"write",
			"",
			"set the scrolling display message on the running service",
		),
		Status: flag.Bool(
			"status",
			false,
			"print the running service's status as JSON",
		),
		Follow: flag.Bool(
			"follow",
			false,
			"print display notifications as they happen",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("Marquee v%s (%s)\n", config.AppVersion, pl.ID())
		os.Exit(0)
	}
}

// runWrite posts text as the new scrolling message on the running
// service.
func runWrite(ctx context.Context, cfg *config.Instance, text string) error {
	if text == "" {
		return errors.New("write flag requires a value")
	}
	if err := client.SetDisplay(ctx, cfg, text); err != nil {
		return fmt.Errorf("failed to set display: %w", err)
	}
	return nil
}

// runStatus prints the service's status snapshot to out as one JSON line.
func runStatus(ctx context.Context, cfg *config.Instance, out io.Writer) error {
	status, err := client.Status(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to query status: %w", err)
	}

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}

	_, _ = fmt.Fprintln(out, string(data))
	return nil
}

// runFollow streams service notifications to out as JSON lines until
// ctx is cancelled or the connection drops.
func runFollow(ctx context.Context, cfg *config.Instance, out io.Writer) error {
	return client.Follow(ctx, cfg, func(event models.EventObject) error {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	})
}

// Post actions all remaining common flags that require the environment to be
// set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance, _ platforms.Platform) {
	switch {
	case isFlagPassed("write"):
		err := runWrite(context.Background(), cfg, *f.Write)
		if err != nil {
			log.Error().Err(err).Msg("error setting display")
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Display set: %s\n", *f.Write)
		os.Exit(0)
	case *f.Status:
		err := runStatus(context.Background(), cfg, os.Stdout)
		if err != nil {
			log.Error().Err(err).Msg("error querying status")
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	case *f.Follow:
		ctx, cancel := context.WithCancel(context.Background())

		// cleanup after ctrl-c
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		err := runFollow(ctx, cfg, os.Stdout)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("error following events")
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) *config.Instance {
	// Ensure directories exist before logging initialization
	err := helpers.EnsureDirectories(pl)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(pl, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(pl), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg
}
