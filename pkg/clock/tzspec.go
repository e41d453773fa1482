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

package clock

import (
	"fmt"
	"time"

	// Embed the IANA database so named zones resolve on hosts without
	// a system zoneinfo directory.
	_ "time/tzdata"
)

// defaultTransitionSeconds is the local time of day a DST transition
// happens at when the rule omits one (02:00:00).
const defaultTransitionSeconds = 2 * 60 * 60

type ruleKind int

const (
	ruleMonthWeekDay ruleKind = iota
	ruleJulian
	ruleZeroJulian
)

// transition describes one end of the DST period.
type transition struct {
	kind      ruleKind
	month     int
	week      int
	day       int
	dayOfYear int
	seconds   int
}

// Zone converts UTC instants to the wall clock of a configured time
// zone. Zones come from POSIX TZ strings like "CET-1CEST,M3.5.0,M10.5.0/3"
// or, as a fallback, IANA names like "Europe/Berlin".
type Zone struct {
	loc       *time.Location
	spec      string
	stdName   string
	dstName   string
	startRule transition
	endRule   transition
	// stdOffset and dstOffset are seconds east of UTC, the opposite
	// sign convention to the POSIX string they were parsed from.
	stdOffset int
	dstOffset int
	hasDST    bool
}

// ParseSpec parses a POSIX TZ string, falling back to an IANA zone
// name lookup if the string isn't in TZ format.
func ParseSpec(spec string) (*Zone, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty time zone spec")
	}

	z, posixErr := parsePosix(spec)
	if posixErr == nil {
		return z, nil
	}

	loc, err := time.LoadLocation(spec)
	if err == nil {
		return &Zone{spec: spec, loc: loc}, nil
	}

	return nil, fmt.Errorf("invalid time zone spec %q: %w", spec, posixErr)
}

// String returns the TZ string the zone was parsed from.
func (z *Zone) String() string {
	return z.spec
}

// Clock returns the wall clock hour and minute in this zone for a UTC
// instant.
func (z *Zone) Clock(utc time.Time) (hour, minute int) {
	local := z.localize(utc)
	return local.Hour(), local.Minute()
}

// Offset returns the total offset from UTC in effect at the given
// instant, including any DST shift.
func (z *Zone) Offset(utc time.Time) time.Duration {
	if z.loc != nil {
		_, off := utc.In(z.loc).Zone()
		return time.Duration(off) * time.Second
	}
	return time.Duration(z.offsetAt(utc)) * time.Second
}

func (z *Zone) localize(utc time.Time) time.Time {
	if z.loc != nil {
		return utc.In(z.loc)
	}
	return utc.UTC().Add(time.Duration(z.offsetAt(utc)) * time.Second)
}

// offsetAt returns the seconds east of UTC at the given instant.
func (z *Zone) offsetAt(utc time.Time) int {
	if !z.hasDST {
		return z.stdOffset
	}

	// Rules are evaluated in the year the instant falls in on the
	// standard wall clock, which keeps year wrap in the southern
	// hemisphere working.
	year := utc.Add(time.Duration(z.stdOffset) * time.Second).Year()

	start := ruleInstant(z.startRule, year, z.stdOffset)
	end := ruleInstant(z.endRule, year, z.dstOffset)

	var inDST bool
	if start.Before(end) {
		inDST = !utc.Before(start) && utc.Before(end)
	} else {
		// DST period spans the new year.
		inDST = !utc.Before(start) || utc.Before(end)
	}

	if inDST {
		return z.dstOffset
	}
	return z.stdOffset
}

// ruleInstant returns the UTC instant of a transition in the given
// year. The offset is the one in effect before the transition, since
// transition times are expressed on that wall clock.
func ruleInstant(r transition, year, offset int) time.Time {
	var date time.Time
	switch r.kind {
	case ruleMonthWeekDay:
		date = monthWeekDay(year, r.month, r.week, r.day)
	case ruleJulian:
		// Julian days never count February 29.
		date = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, r.dayOfYear-1)
		if isLeap(year) && r.dayOfYear >= 60 {
			date = date.AddDate(0, 0, 1)
		}
	case ruleZeroJulian:
		date = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, r.dayOfYear)
	}

	wall := date.Add(time.Duration(r.seconds) * time.Second)
	return wall.Add(-time.Duration(offset) * time.Second)
}

// monthWeekDay resolves an Mm.w.d rule to a date: day d (0 is Sunday)
// of week w (1-5, 5 meaning last) in month m.
func monthWeekDay(year, month, week, day int) time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	firstWeekday := int(first.Weekday())

	dom := 1 + ((day-firstWeekday+7)%7 + (week-1)*7)
	last := first.AddDate(0, 1, -1).Day()
	for dom > last {
		dom -= 7
	}

	return time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func parsePosix(spec string) (*Zone, error) {
	z := &Zone{spec: spec}
	i := 0

	name, i, err := parseName(spec, i)
	if err != nil {
		return nil, err
	}
	z.stdName = name

	posixStd, i, err := parseOffset(spec, i)
	if err != nil {
		return nil, err
	}
	z.stdOffset = -posixStd

	if i == len(spec) {
		return z, nil
	}

	name, i, err = parseName(spec, i)
	if err != nil {
		return nil, err
	}
	z.dstName = name
	z.hasDST = true

	// DST defaults to one hour ahead of standard time.
	z.dstOffset = z.stdOffset + 3600
	if i < len(spec) && spec[i] != ',' {
		posixDST, next, err := parseOffset(spec, i)
		if err != nil {
			return nil, err
		}
		z.dstOffset = -posixDST
		i = next
	}

	if i == len(spec) {
		// No rules given, fall back to the common US schedule.
		z.startRule = transition{
			kind: ruleMonthWeekDay, month: 3, week: 2, day: 0,
			seconds: defaultTransitionSeconds,
		}
		z.endRule = transition{
			kind: ruleMonthWeekDay, month: 11, week: 1, day: 0,
			seconds: defaultTransitionSeconds,
		}
		return z, nil
	}

	if spec[i] != ',' {
		return nil, fmt.Errorf("unexpected character %q at position %d", spec[i], i)
	}
	z.startRule, i, err = parseRule(spec, i+1)
	if err != nil {
		return nil, err
	}

	if i >= len(spec) || spec[i] != ',' {
		return nil, fmt.Errorf("missing end rule in %q", spec)
	}
	z.endRule, i, err = parseRule(spec, i+1)
	if err != nil {
		return nil, err
	}

	if i != len(spec) {
		return nil, fmt.Errorf("trailing characters in %q", spec)
	}

	return z, nil
}

// parseName reads a zone abbreviation: at least three letters, or any
// characters between angle brackets.
func parseName(s string, i int) (string, int, error) {
	if i >= len(s) {
		return "", i, fmt.Errorf("missing zone name at position %d", i)
	}

	if s[i] == '<' {
		end := i + 1
		for end < len(s) && s[end] != '>' {
			end++
		}
		if end == len(s) {
			return "", i, fmt.Errorf("unterminated quoted zone name")
		}
		return s[i+1 : end], end + 1, nil
	}

	end := i
	for end < len(s) && isAlpha(s[end]) {
		end++
	}
	if end-i < 3 {
		return "", i, fmt.Errorf("zone name too short at position %d", i)
	}
	return s[i:end], end, nil
}

// parseOffset reads a POSIX offset ([+-]hh[:mm[:ss]]) and returns it
// in seconds with the POSIX sign convention.
func parseOffset(s string, i int) (int, int, error) {
	sign := 1
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}

	hours, next, err := parseNumber(s, i, 2)
	if err != nil {
		return 0, i, fmt.Errorf("missing offset at position %d", i)
	}
	if hours > 24 {
		return 0, i, fmt.Errorf("offset hours out of range at position %d", i)
	}
	i = next
	seconds := hours * 3600

	for _, unit := range []int{60, 1} {
		if i >= len(s) || s[i] != ':' {
			break
		}
		n, next, err := parseNumber(s, i+1, 2)
		if err != nil || n > 59 {
			return 0, i, fmt.Errorf("invalid offset component at position %d", i)
		}
		seconds += n * unit
		i = next
	}

	return sign * seconds, i, nil
}

// parseRule reads one DST transition rule with an optional /time part.
func parseRule(s string, i int) (transition, int, error) {
	var r transition
	r.seconds = defaultTransitionSeconds

	if i >= len(s) {
		return r, i, fmt.Errorf("missing rule at position %d", i)
	}

	var err error
	switch {
	case s[i] == 'M':
		r.kind = ruleMonthWeekDay
		r.month, i, err = parseNumber(s, i+1, 2)
		if err != nil || r.month < 1 || r.month > 12 {
			return r, i, fmt.Errorf("invalid rule month")
		}
		if i >= len(s) || s[i] != '.' {
			return r, i, fmt.Errorf("malformed month rule")
		}
		r.week, i, err = parseNumber(s, i+1, 1)
		if err != nil || r.week < 1 || r.week > 5 {
			return r, i, fmt.Errorf("invalid rule week")
		}
		if i >= len(s) || s[i] != '.' {
			return r, i, fmt.Errorf("malformed month rule")
		}
		r.day, i, err = parseNumber(s, i+1, 1)
		if err != nil || r.day < 0 || r.day > 6 {
			return r, i, fmt.Errorf("invalid rule weekday")
		}
	case s[i] == 'J':
		r.kind = ruleJulian
		r.dayOfYear, i, err = parseNumber(s, i+1, 3)
		if err != nil || r.dayOfYear < 1 || r.dayOfYear > 365 {
			return r, i, fmt.Errorf("invalid julian day")
		}
	default:
		r.kind = ruleZeroJulian
		r.dayOfYear, i, err = parseNumber(s, i, 3)
		if err != nil || r.dayOfYear < 0 || r.dayOfYear > 365 {
			return r, i, fmt.Errorf("invalid day of year")
		}
	}

	if i < len(s) && s[i] == '/' {
		t, next, err := parseOffset(s, i+1)
		if err != nil {
			return r, i, err
		}
		r.seconds = t
		i = next
	}

	return r, i, nil
}

// parseNumber reads up to maxDigits decimal digits.
func parseNumber(s string, i, maxDigits int) (int, int, error) {
	start := i
	n := 0
	for i < len(s) && i-start < maxDigits && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, i, fmt.Errorf("expected digits at position %d", start)
	}
	return n, i, nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
