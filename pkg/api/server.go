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

// Package api serves the device's HTTP surface: the legacy firmware
// routes for reading and updating the display, the settings form, and
// a websocket event stream for modern clients.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/methods"
	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/api/models/requests"
	"github.com/MarqueeProject/marquee-core/pkg/clock"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/MarqueeProject/marquee-core/pkg/display"
	"github.com/MarqueeProject/marquee-core/pkg/platforms"
	"github.com/MarqueeProject/marquee-core/pkg/service/broker"
	"github.com/MarqueeProject/marquee-core/pkg/service/state"
	"github.com/MarqueeProject/marquee-core/pkg/settings"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

func broadcastNotifications(
	st *state.State,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-st.GetContext().Done():
			log.Debug().Msg("closing notification broadcaster via context cancellation")
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}

			event := models.EventObject{
				Method: notif.Method,
				Params: notif.Params,
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification event")
				continue
			}

			err = session.Broadcast(data)
			if err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(session *melody.Session, msg []byte) {
	// ping command for heartbeat operation
	if bytes.Equal(msg, []byte("ping")) {
		err := session.Write([]byte("pong"))
		if err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	log.Debug().Str("msg", string(msg)).Msg("ignoring websocket message")
}

//nolint:gocritic // single-use parameter in API handler
func newRouter(env requests.RequestEnv, session *melody.Melody) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.ApiRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*", "capacitor://*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", methods.HandleDisplayState(env))
	r.Post("/display", methods.HandleSetDisplay(env))
	r.Get("/config", methods.HandleConfigPage(env))
	r.Post("/updateConfig", methods.HandleUpdateConfig(env))
	r.Get("/api/v0/status", methods.HandleStatus(env))

	r.Get("/api/v0/events", func(w http.ResponseWriter, r *http.Request) {
		err := session.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request: events")
		}
	})

	r.Get("/api/v0", func(w http.ResponseWriter, r *http.Request) {
		err := session.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request: v0")
		}
	})

	return r
}

// Start runs the HTTP server until the service context is cancelled.
// Notifications from the broker are fanned out to every connected
// websocket client.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
	st *state.State,
	stg *settings.Store,
	clk clock.Source,
	disp *display.Driver,
	br *broker.Broker,
) {
	env := requests.RequestEnv{
		Platform: pl,
		Config:   cfg,
		State:    st,
		Settings: stg,
		Clock:    clk,
		Display:  disp,
	}

	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	session.HandleMessage(handleWSMessage)

	notifications, subID := br.Subscribe(broker.DefaultBufferSize)
	defer br.Unsubscribe(subID)
	go broadcastNotifications(st, session, notifications)

	server := &http.Server{
		Addr:              cfg.APIListen(),
		Handler:           newRouter(env, session),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-st.GetContext().Done()
		log.Debug().Msg("shutting down HTTP server via context cancellation")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down http server")
		}
	}()

	log.Info().Msgf("starting http server on %s", server.Addr)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("error starting http server")
	}
}
