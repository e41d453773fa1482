/*
Marquee Core
Copyright (c) 2026 The Marquee Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

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

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api"
	"github.com/MarqueeProject/marquee-core/pkg/api/notifications"
	"github.com/MarqueeProject/marquee-core/pkg/clock"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/helpers"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/MarqueeProject/marquee-core/pkg/scroll"
	"github.com/MarqueeProject/marquee-core/pkg/service/broker"
	"github.com/MarqueeProject/marquee-core/pkg/service/discovery"
	"github.com/MarqueeProject/marquee-core/pkg/service/publishers"
	"github.com/MarqueeProject/marquee-core/pkg/service/state"
	"github.com/MarqueeProject/marquee-core/pkg/settings"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// renderInterval is the cadence of the display loop. Every pass rereads
// the clock and the live state, so this is also the worst case latency
// between a settings change and the panel reflecting it.
const renderInterval = 25 * time.Millisecond

func setupEnvironment(pl platforms.Platform) error {
	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	log.Info().Msg("creating platform directories")
	dirs := []string{
		helpers.ConfigDir(pl),
		pl.Settings().TempDir,
		helpers.DataDir(pl),
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// openSettings opens the settings database and loads the persisted
// values into live state, so the panel comes back up exactly as it was
// left.
func openSettings(pl platforms.Platform, st *state.State) (*settings.Store, error) {
	path := filepath.Join(helpers.DataDir(pl), config.SettingsDbFile)
	store, err := settings.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	st.ApplySettings(
		time.Duration(store.ScrollInterval())*time.Millisecond,
		store.TimeZoneSpec(),
		store.TemperatureUnit(),
	)
	if message := store.DisplayMessage(); message != "" {
		st.SetMessage(message)
	}

	return store, nil
}

// startPublishers starts an MQTT publisher for every enabled config
// entry. Each publisher gets its own broker subscription so a slow
// broker connection only drops its own notifications.
func startPublishers(
	cfg *config.Instance,
	notifBroker *broker.Broker,
) (active []*publishers.MQTTPublisher, subIDs []int) {
	for _, mqttCfg := range cfg.GetMQTTPublishers() {
		// Skip if explicitly disabled (nil = enabled by default)
		if mqttCfg.Enabled != nil && !*mqttCfg.Enabled {
			continue
		}

		log.Info().Msgf("starting MQTT publisher: %s (topic: %s)", mqttCfg.Broker, mqttCfg.Topic)

		publisher := publishers.NewMQTTPublisher(mqttCfg.Broker, mqttCfg.Topic, mqttCfg.Filter)
		notifChan, subID := notifBroker.Subscribe(broker.DefaultBufferSize)
		if err := publisher.Start(notifChan); err != nil {
			log.Error().Err(err).Msgf("failed to start MQTT publisher for %s", mqttCfg.Broker)
			notifBroker.Unsubscribe(subID)
			continue
		}

		active = append(active, publisher)
		subIDs = append(subIDs, subID)
	}

	if len(active) > 0 {
		log.Info().Msgf("started %d MQTT publisher(s)", len(active))
	}

	return active, subIDs
}

// renderer drives the panel. It owns the scroll ticker outright, so the
// only synchronization it needs is the state accessors it rereads every
// pass.
type renderer struct {
	clk        clockwork.Clock
	st         *state.State
	src        clock.Source
	disp       *display.Driver
	cfg        *config.Instance
	marquee    *scroll.Ticker
	messageSeq uint64
}

func newRenderer(
	clk clockwork.Clock,
	st *state.State,
	src clock.Source,
	disp *display.Driver,
	cfg *config.Instance,
) *renderer {
	marquee := scroll.NewTicker(display.Cols, st.ScrollInterval())
	message, seq := st.Message()
	marquee.SetMessage(message)

	return &renderer{
		clk:        clk,
		st:         st,
		src:        src,
		disp:       disp,
		cfg:        cfg,
		marquee:    marquee,
		messageSeq: seq,
	}
}

// run loops until the context is cancelled, drawing one frame per tick.
func (r *renderer) run(ctx context.Context) {
	ticker := r.clk.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("render loop stopping")
			return
		case <-ticker.Chan():
			r.pass(r.clk.Now())
		}
	}
}

// pass draws one frame: clock field, marquee row, then the identity
// rows. Everything is reread from its source each time, no caching
// between passes. The display driver diffs rows against its shadow
// buffer, so an unchanged frame costs no backend writes.
func (r *renderer) pass(now time.Time) {
	r.writeTimeField()

	message, seq := r.st.Message()
	if seq != r.messageSeq {
		r.marquee.SetMessage(message)
		r.messageSeq = seq
	}
	if interval := r.st.ScrollInterval(); interval != r.marquee.Interval() {
		r.marquee.SetInterval(interval)
	}
	if err := r.disp.WriteRow(1, r.marquee.Tick(now)); err != nil {
		log.Debug().Err(err).Msg("failed to write marquee row")
	}

	if err := r.disp.WriteRow(2, helpers.DeviceName(r.cfg)); err != nil {
		log.Debug().Err(err).Msg("failed to write device name row")
	}
	if err := r.disp.WriteRow(3, helpers.GetLocalIP()); err != nil {
		log.Debug().Err(err).Msg("failed to write IP address row")
	}
}

// writeTimeField puts the current time in the top right corner, or the
// 00:00 placeholder until the first NTP sync lands. The first
// successful read flips the sync flag and announces it.
func (r *renderer) writeTimeField() {
	hour, minute, ok := r.src.Read()
	if !ok {
		if err := r.disp.WriteTimeField("00:00"); err != nil {
			log.Debug().Err(err).Msg("failed to write time field")
		}
		return
	}

	timeStr := fmt.Sprintf("%02d:%02d", hour, minute)
	if !r.st.ClockSynced() {
		r.st.SetClockSynced(true)
		log.Info().Msgf("clock synced: %s", timeStr)
		notifications.ClockSynced(r.st.Notifications, timeStr)
	}
	if err := r.disp.WriteTimeField(timeStr); err != nil {
		log.Debug().Err(err).Msg("failed to write time field")
	}
}

// Start brings up the whole service: settings store, display, clock,
// HTTP API, mDNS discovery, MQTT publishers and the render loop. The
// returned stop function shuts everything down in reverse order and
// blocks until cleanup has finished.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
) (stop func() error, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	st, ns := state.NewState()

	// Create and start notification broker to broadcast to all consumers
	notifBroker := broker.NewBroker(st.GetContext(), ns)
	notifBroker.Start()

	err = setupEnvironment(pl)
	if err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, err
	}

	log.Info().Msg("running platform pre start")
	err = pl.StartPre(cfg)
	if err != nil {
		log.Error().Err(err).Msg("platform start pre error")
		return nil, fmt.Errorf("platform start pre failed: %w", err)
	}

	log.Info().Msg("opening settings database")
	store, err := openSettings(pl, st)
	if err != nil {
		log.Error().Err(err).Msg("error opening settings database")
		return nil, err
	}

	log.Info().Msg("opening display")
	backend, err := pl.OpenDisplay(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error opening display")
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	driver := display.NewDriver(backend)

	// Boot banner: device name on the left of row 0. The render loop
	// only ever touches the last 5 columns of this row.
	if bannerErr := driver.WriteRow(0, helpers.DeviceName(cfg)); bannerErr != nil {
		log.Warn().Err(bannerErr).Msg("failed to write boot banner")
	}

	log.Info().Msg("configuring clock source")
	src := clock.NewNTPSource(cfg.NTPHost(), nil)
	if cfgErr := src.Configure(st.TimeZoneSpec()); cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("stored time zone spec rejected, clock stays unconfigured")
	}

	discoveryService := discovery.New(cfg)
	if cfg.DiscoveryEnabled() {
		log.Info().Msg("starting mDNS discovery service")
		if discoveryErr := discoveryService.Start(); discoveryErr != nil {
			log.Error().Err(discoveryErr).Msg("mDNS discovery failed to start (continuing without discovery)")
		}
	} else {
		log.Debug().Msg("mDNS discovery disabled")
	}

	log.Info().Msg("starting API service")
	go api.Start(pl, cfg, st, store, src, driver, notifBroker)

	log.Info().Msg("starting publishers")
	activePublishers, publisherSubs := startPublishers(cfg, notifBroker)

	log.Info().Msg("starting render loop")
	renderDone := make(chan struct{})
	go func() {
		newRenderer(clockwork.NewRealClock(), st, src, driver, cfg).run(st.GetContext())
		close(renderDone)
	}()

	log.Info().Msg("running platform post start")
	err = pl.StartPost(cfg)
	if err != nil {
		log.Error().Err(err).Msg("platform post start error")
		return nil, fmt.Errorf("platform start post failed: %w", err)
	}
	log.Info().Msg("platform post start completed, service fully initialized")

	doneCh := make(chan struct{})
	go func() {
		<-st.GetContext().Done()
		log.Info().Msg("service context cancelled, running cleanup")

		discoveryService.Stop()
		for _, subID := range publisherSubs {
			notifBroker.Unsubscribe(subID)
		}
		for _, publisher := range activePublishers {
			publisher.Stop()
		}
		if stopErr := pl.Stop(); stopErr != nil {
			log.Warn().Msgf("error stopping platform: %s", stopErr)
		}

		// The render loop must be off the display before it is closed.
		<-renderDone
		if clearErr := driver.Clear(); clearErr != nil {
			log.Warn().Err(clearErr).Msg("error clearing display")
		}
		if closeErr := driver.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing display")
		}

		if closeErr := store.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing settings database")
		}
		notifBroker.Stop()

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		st.StopService()
		<-doneCh
		return nil
	}
	return stop, nil
}
