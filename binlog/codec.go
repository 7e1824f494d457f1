// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binlog

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"binhistory.io/errors"
)

// Field widths, in characters, of a log line.
const (
	timestampWidth = 21
	computerWidth  = 26
	userWidth      = 21

	// LineLength is the length of a log line, without its terminator.
	LineLength = timestampWidth + computerWidth + userWidth
)

const (
	timestampLength = 19 // "Wed Dec 15 09:47:51"

	computerPrefix = "Computer: "
	userPrefix     = "User: "

	// The day of the month is written zero-padded, but space-padded
	// days are accepted when reading.
	formatLayout = "Mon Jan 02 15:04:05"
	parseLayout  = "Mon Jan _2 15:04:05"
)

// YearWindow is how many years before the reference year Parse will search
// for one in which the recorded month and day fall on the recorded weekday.
// Eleven years are tried in all: the reference year and the ten before it.
const YearWindow = 10

// Parse decodes one log line. Characters beyond LineLength are ignored,
// as is a trailing line terminator. The year of the timestamp is the
// latest year, no later than maxYear and no earlier than maxYear-YearWindow,
// in which the month and day fall on the weekday written in the line.
//
// Malformed text is reported as an error of kind Parse; names that are
// well formed but invalid are reported as by NewEntry.
func Parse(line string, maxYear int) (Entry, error) {
	const op errors.Op = "binlog.Parse"
	line = strings.TrimRight(line, "\r\n")
	r := []rune(line)
	if len(r) < LineLength {
		return Entry{}, errors.E(op, errors.Parse, errors.Errorf("line is %d characters, want %d: %q", len(r), LineLength, line))
	}

	ts, err := parseTimestamp(string(r[:timestampLength]), maxYear)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	computer, err := parseField(string(r[timestampWidth:timestampWidth+computerWidth]), computerPrefix)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	user, err := parseField(string(r[timestampWidth+computerWidth:LineLength]), userPrefix)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}

	e, err := NewEntry(ts, computer, user)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	return e, nil
}

// parseField checks that field begins with prefix and returns the
// remainder with its padding removed.
func parseField(field, prefix string) (string, error) {
	if !strings.HasPrefix(field, prefix) {
		return "", errors.E(errors.Parse, errors.Errorf("expected %q at start of field %q", prefix, field))
	}
	return strings.TrimRightFunc(field[len(prefix):], unicode.IsSpace), nil
}

// parseTimestamp decodes text such as "Wed Dec 15 09:47:51" and resolves
// its year.
func parseTimestamp(text string, maxYear int) (time.Time, error) {
	t, err := time.Parse(parseLayout, text)
	if err != nil {
		return time.Time{}, errors.E(errors.Parse, errors.Errorf("bad access time %q: %v", text, err))
	}
	// time.Parse checks the weekday's spelling but discards it.
	weekday, ok := lookupWeekday(text[:3])
	if !ok {
		return time.Time{}, errors.E(errors.Parse, errors.Errorf("bad weekday in access time %q", text))
	}
	ts, ok := resolveYear(t, weekday, maxYear)
	if !ok {
		return time.Time{}, errors.E(errors.Parse, errors.Errorf("no valid year for access time %q between %d and %d", text, maxYear-YearWindow, maxYear))
	}
	return ts, nil
}

func lookupWeekday(abbr string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(abbr, d.String()[:3]) {
			return d, true
		}
	}
	return 0, false
}

// resolveYear returns t moved to the latest year in the window ending at
// maxYear in which its month and day fall on weekday.
func resolveYear(t time.Time, weekday time.Weekday, maxYear int) (time.Time, bool) {
	for year := maxYear; year >= maxYear-YearWindow; year-- {
		c := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		if c.Day() != t.Day() {
			continue // February 29th in a common year.
		}
		if c.Weekday() == weekday {
			return c, true
		}
	}
	return time.Time{}, false
}

// Format encodes e as a log line of exactly LineLength characters,
// without a line terminator.
func Format(e Entry) string {
	var b strings.Builder
	b.Grow(LineLength)
	pad(&b, e.timestamp.Format(formatLayout), timestampWidth)
	pad(&b, computerPrefix+e.computer, computerWidth)
	pad(&b, userPrefix+e.user, userWidth)
	return b.String()
}

// pad writes s to b followed by enough spaces to fill width characters.
func pad(b *strings.Builder, s string, width int) {
	b.WriteString(s)
	for n := utf8.RuneCountInString(s); n < width; n++ {
		b.WriteByte(' ')
	}
}
