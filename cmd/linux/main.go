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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarqueeProject/marquee-core/pkg/cli"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/helpers"
	"github.com/MarqueeProject/marquee-core/pkg/platforms/linux"
	"github.com/MarqueeProject/marquee-core/pkg/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	pl := &linux.Platform{}
	flags := cli.SetupFlags()

	flags.Pre(pl)

	if os.Geteuid() == 0 {
		return errors.New("marquee cannot be run as root")
	}

	cfg := cli.Setup(
		pl,
		config.BaseDefaults,
		[]io.Writer{os.Stderr},
	)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	flags.Post(cfg, pl)

	if helpers.IsServiceRunning(cfg) {
		return errors.New("marquee service is already running")
	}

	stopSvc, err := service.Start(pl, cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	defer func() {
		err := stopSvc()
		if err != nil {
			log.Error().Msgf("error stopping service: %s", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	return nil
}
