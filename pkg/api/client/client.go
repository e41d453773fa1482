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

// Package client talks to a locally running service over its HTTP API
// and websocket event stream. It backs the one-shot CLI flags.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrRequestCancelled = errors.New("request cancelled")
)

// EventsPath is the websocket endpoint notifications are streamed on.
const EventsPath = "/api/v0/events"

func baseURL(cfg *config.Instance) string {
	return "http://localhost:" + strconv.Itoa(cfg.APIPort())
}

func eventsURL(cfg *config.Instance) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   EventsPath,
	}
	return u.String()
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing response body")
	}
}

// SetDisplay posts a new scrolling message to the local service.
func SetDisplay(ctx context.Context, cfg *config.Instance, text string) error {
	payload, err := json.Marshal(models.DisplayRequest{Text: &text})
	if err != nil {
		return fmt.Errorf("failed to marshal display request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, baseURL(cfg)+"/display", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create display request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: config.ApiRequestTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send display request: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("display request rejected: %s", strings.TrimSpace(string(msg)))
	}
	return nil
}

// Status fetches the device status snapshot from the local service.
func Status(ctx context.Context, cfg *config.Instance) (models.StatusResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, baseURL(cfg)+"/api/v0/status", nil)
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("failed to create status request: %w", err)
	}

	httpClient := &http.Client{Timeout: config.ApiRequestTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("failed to send status request: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return models.StatusResponse{}, fmt.Errorf("status request failed: %s", resp.Status)
	}

	var status models.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return models.StatusResponse{}, fmt.Errorf("failed to decode status response: %w", err)
	}
	return status, nil
}

// Follow subscribes to the local event stream and calls handler for
// each notification, until the context is cancelled, the connection
// drops, or the handler returns an error.
func Follow(
	ctx context.Context,
	cfg *config.Instance,
	handler func(models.EventObject) error,
) error {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, eventsURL(cfg), nil)
	if err != nil {
		return fmt.Errorf("failed to dial event stream: %w", err)
	}
	defer func(c *websocket.Conn) {
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
	}(c)

	done := make(chan struct{})
	var loopErr error

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				loopErr = err
				return
			}

			var event models.EventObject
			if err := json.Unmarshal(message, &event); err != nil {
				log.Warn().Err(err).Msg("skipping malformed event")
				continue
			}
			if event.Method == "" {
				continue
			}

			if err := handler(event); err != nil {
				loopErr = err
				return
			}
		}
	}()

	select {
	case <-done:
		if loopErr != nil {
			return fmt.Errorf("event stream closed: %w", loopErr)
		}
		return nil
	case <-ctx.Done():
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		<-done
		return nil
	}
}

// WaitNotification connects to the event stream and blocks until a
// notification with the given method arrives, returning its params as
// JSON. A zero timeout uses the default request timeout, a negative
// one waits forever.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, eventsURL(cfg), nil)
	if err != nil {
		return "", fmt.Errorf("failed to dial event stream: %w", err)
	}
	defer func(c *websocket.Conn) {
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
	}(c)

	done := make(chan struct{})
	var match *models.EventObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("event stream read ended")
				return
			}

			var event models.EventObject
			if err := json.Unmarshal(message, &event); err != nil {
				continue
			}
			if event.Method != method {
				continue
			}

			match = &event
			return
		}
	}()

	var timerChan <-chan time.Time
	if timeout == 0 {
		timer := time.NewTimer(config.ApiRequestTimeout)
		defer timer.Stop()
		timerChan = timer.C
	} else if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}
	// or else leave chan nil, which will never receive

	select {
	case <-done:
		break
	case <-timerChan:
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestTimeout
	case <-ctx.Done():
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestCancelled
	}

	if match == nil {
		return "", ErrRequestTimeout
	}

	b, err := json.Marshal(match.Params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification params: %w", err)
	}
	return string(b), nil
}
