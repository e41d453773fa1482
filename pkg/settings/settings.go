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

// Package settings persists user-adjustable display settings in a small
// key/value store on disk. Values are stored as strings and every read
// takes a fallback, so a missing or unreadable key can never stop the
// display loop.
package settings

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSettings = "settings"

	KeyTimeZoneSpec    = "time_zone_spec"
	KeyScrollInterval  = "scroll_interval_ms"
	KeyTemperatureUnit = "temperature_unit"
	KeyDisplayMessage  = "display_message"

	DefaultTimeZoneSpec    = "UTC0"
	DefaultScrollInterval  = 200
	DefaultTemperatureUnit = "C"

	// MinScrollInterval and MaxScrollInterval bound the accepted scroll
	// interval in milliseconds.
	MinScrollInterval = 30
	MaxScrollInterval = 500
)

type Store struct {
	bdb *bolt.DB
}

// Open opens or creates the settings database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists([]byte(BucketSettings))
		if err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", BucketSettings, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to update bolt database: %w", err)
	}

	return &Store{bdb: db}, nil
}

func (s *Store) Close() error {
	if err := s.bdb.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

// GetString returns the stored value for key, or def if the key is
// missing or the store can't be read.
func (s *Store) GetString(key, def string) string {
	value := def
	err := s.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketSettings))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", BucketSettings)
		}
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msgf("failed to read setting %q, using default", key)
		return def
	}
	return value
}

// PutString stores value under key.
func (s *Store) PutString(key, value string) error {
	err := s.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketSettings))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", BucketSettings)
		}
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to put key %q: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update bolt database: %w", err)
	}
	return nil
}

// All returns a copy of every stored setting.
func (s *Store) All() (map[string]string, error) {
	out := make(map[string]string)
	err := s.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketSettings))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", BucketSettings)
		}
		return b.ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to view bolt database: %w", err)
	}
	return out, nil
}

func (s *Store) TimeZoneSpec() string {
	return s.GetString(KeyTimeZoneSpec, DefaultTimeZoneSpec)
}

func (s *Store) SetTimeZoneSpec(spec string) error {
	return s.PutString(KeyTimeZoneSpec, spec)
}

// ScrollInterval returns the stored scroll interval in milliseconds.
// Unparseable or out-of-range values fall back to the default rather
// than erroring, the same as a missing key.
func (s *Store) ScrollInterval() int {
	raw := s.GetString(KeyScrollInterval, strconv.Itoa(DefaultScrollInterval))
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < MinScrollInterval || ms > MaxScrollInterval {
		log.Warn().Msgf("invalid stored scroll interval %q, using default", raw)
		return DefaultScrollInterval
	}
	return ms
}

func (s *Store) SetScrollInterval(ms int) error {
	return s.PutString(KeyScrollInterval, strconv.Itoa(ms))
}

// TemperatureUnit returns "C" or "F", falling back to the default for
// any other stored value.
func (s *Store) TemperatureUnit() string {
	unit := s.GetString(KeyTemperatureUnit, DefaultTemperatureUnit)
	if unit != "C" && unit != "F" {
		log.Warn().Msgf("invalid stored temperature unit %q, using default", unit)
		return DefaultTemperatureUnit
	}
	return unit
}

func (s *Store) SetTemperatureUnit(unit string) error {
	return s.PutString(KeyTemperatureUnit, unit)
}

func (s *Store) DisplayMessage() string {
	return s.GetString(KeyDisplayMessage, "")
}

func (s *Store) SetDisplayMessage(message string) error {
	return s.PutString(KeyDisplayMessage, message)
}
