// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binlog reads and writes bin access logs: the fixed-width text
// files that record which user, on which computer, last opened a bin and
// when.
//
// Each line of a log is exactly 68 characters:
//
//	Wed Dec 15 09:47:51  Computer: EDIT-3          User: jsmith
//	|<------ 21 ------->||<--------- 26 --------->||<---- 21 ---->|
//
// The timestamp carries the day of the week but not the year, so decoding
// a line needs a reference year from which to search backwards for a year
// in which that month and day fell on that weekday.
//
// A Log holds any number of entries but only ever lists, and writes, the
// MaxEntries most recent of them in ascending order.
package binlog // import "binhistory.io/binlog"

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"binhistory.io/errors"
)

const (
	// MaxEntries is the number of entries a log keeps.
	MaxEntries = 10

	// MaxFieldLength is the maximum length, in characters, of the
	// computer and user names of an entry.
	MaxFieldLength = 15
)

// Entry records one access to a bin. Entries are values; the only way to
// make a valid one is NewEntry (or Parse), and an Entry never changes once
// built. The zero Entry is not a valid entry: its names are empty, so it
// would format as a line that Parse rejects. See IsZero.
type Entry struct {
	timestamp time.Time
	computer  string
	user      string
}

// NewEntry returns an Entry for an access at the given time by user on
// computer. Trailing white space is removed from both names. A name that is
// then empty or longer than MaxFieldLength characters is a FieldLength
// error; a name holding a non-printable character is a FieldContent error.
// The timestamp is reduced to a naive wall-clock time with second
// precision; see Naive.
func NewEntry(timestamp time.Time, computer, user string) (Entry, error) {
	const op errors.Op = "binlog.NewEntry"
	computer, err := validField("computer", computer)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	user, err = validField("user", user)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	return Entry{
		timestamp: Naive(timestamp),
		computer:  computer,
		user:      user,
	}, nil
}

// validField trims and checks a computer or user name.
func validField(name, value string) (string, error) {
	value = strings.TrimRightFunc(value, unicode.IsSpace)
	if value == "" {
		return "", errors.E(errors.FieldLength, errors.Errorf("%s name is empty", name))
	}
	if n := utf8.RuneCountInString(value); n > MaxFieldLength {
		return "", errors.E(errors.FieldLength, errors.Errorf("%s name %q is %d characters; limit is %d", name, value, n, MaxFieldLength))
	}
	for _, r := range value {
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			return "", errors.E(errors.FieldContent, errors.Errorf("%s name %q contains non-printable character %U", name, value, r))
		}
	}
	return value, nil
}

// Naive returns the wall-clock reading of t, truncated to the second, as
// a time in UTC. Log timestamps have no zone; storing them this way makes
// entries comparable with == and immune to daylight saving transitions.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Timestamp returns the time of the access.
func (e Entry) Timestamp() time.Time { return e.timestamp }

// Computer returns the name of the computer that accessed the bin.
func (e Entry) Computer() string { return e.computer }

// User returns the name of the user who accessed the bin.
func (e Entry) User() string { return e.user }

// IsZero reports whether e is the zero Entry, which holds no access.
func (e Entry) IsZero() bool {
	return e.timestamp.IsZero() && e.computer == "" && e.user == ""
}

// Equal reports whether e and f record the same access.
func (e Entry) Equal(f Entry) bool {
	return e.timestamp.Equal(f.timestamp) && e.computer == f.computer && e.user == f.user
}

// String returns the log line for e, without a line terminator.
func (e Entry) String() string {
	return Format(e)
}

// Fields holds replacement values for Entry.With.
// Zero-valued fields leave the corresponding value unchanged.
type Fields struct {
	Timestamp time.Time
	Computer  string
	User      string
}

// With returns a copy of e with the non-zero members of f substituted.
// The result is validated as by NewEntry.
func (e Entry) With(f Fields) (Entry, error) {
	const op errors.Op = "binlog.Entry.With"
	ts, computer, user := e.timestamp, e.computer, e.user
	if !f.Timestamp.IsZero() {
		ts = f.Timestamp
	}
	if f.Computer != "" {
		computer = f.Computer
	}
	if f.User != "" {
		user = f.User
	}
	n, err := NewEntry(ts, computer, user)
	if err != nil {
		return Entry{}, errors.E(op, err)
	}
	return n, nil
}
