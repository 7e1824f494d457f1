// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binlog

import (
	"testing"
	"time"

	"binhistory.io/errors"
)

func mustEntry(t *testing.T, ts time.Time, computer, user string) Entry {
	t.Helper()
	e, err := NewEntry(ts, computer, user)
	if err != nil {
		t.Fatalf("NewEntry(%v, %q, %q): %v", ts, computer, user, err)
	}
	return e
}

var when = time.Date(2021, time.December, 15, 9, 47, 51, 0, time.UTC)

func TestNewEntryValidation(t *testing.T) {
	tests := []struct {
		computer, user string
		kind           errors.Kind
	}{
		{"EDIT-3", "jsmith", errors.Other},
		{"EDIT-3", "abcdefghijklmno", errors.Other},        // 15 characters.
		{"EDIT-3", "abcdefghijklmnop", errors.FieldLength}, // 16 characters.
		{"EDIT-3", "", errors.FieldLength},
		{"   ", "jsmith", errors.FieldLength},
		{"EDIT-3", "js\x00mith", errors.FieldContent},
		{"EDIT\t3", "jsmith", errors.FieldContent},
		{"EDIT-3", "jsmith\n", errors.Other}, // Trailing white space is trimmed.
		{"MONTAGE-É", "renée", errors.Other},
	}
	for _, test := range tests {
		_, err := NewEntry(when, test.computer, test.user)
		if test.kind == errors.Other {
			if err != nil {
				t.Errorf("NewEntry(%q, %q): %v", test.computer, test.user, err)
			}
			continue
		}
		if !errors.Match(errors.E(errors.Op("binlog.NewEntry"), test.kind), err) {
			t.Errorf("NewEntry(%q, %q) = %v; want %v", test.computer, test.user, err, test.kind)
		}
	}
}

func TestNewEntryTrims(t *testing.T) {
	e := mustEntry(t, when, "EDIT-3   ", "jsmith \t")
	if e.Computer() != "EDIT-3" || e.User() != "jsmith" {
		t.Errorf("got %q, %q; want trimmed names", e.Computer(), e.User())
	}
}

func TestNaive(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip(err)
	}
	local := time.Date(2021, time.March, 14, 1, 30, 15, 999, la)
	e := mustEntry(t, local, "EDIT-3", "jsmith")
	want := time.Date(2021, time.March, 14, 1, 30, 15, 0, time.UTC)
	if e.Timestamp() != want {
		t.Errorf("timestamp = %v; want %v", e.Timestamp(), want)
	}
}

func TestEntryWith(t *testing.T) {
	e := mustEntry(t, when, "EDIT-3", "jsmith")
	h, err := e.With(Fields{Computer: "Heehee"})
	if err != nil {
		t.Fatal(err)
	}
	if h.Computer() != "Heehee" || h.User() != "jsmith" || !h.Timestamp().Equal(when) {
		t.Errorf("With = %v", h)
	}
	if e.Computer() != "EDIT-3" {
		t.Errorf("With modified the original entry: %v", e)
	}
	if _, err := e.With(Fields{User: "sixteen-letters!"}); !errors.Is(errors.FieldLength, err) {
		t.Errorf("With(long user) = %v; want field length error", err)
	}
}

func TestEntryIsZero(t *testing.T) {
	var zero Entry
	if !zero.IsZero() {
		t.Errorf("zero Entry: IsZero() = false")
	}
	if _, err := Parse(Format(zero), 2021); !errors.Is(errors.FieldLength, err) {
		t.Errorf("zero Entry formats to a parsable line: %v", err)
	}
	if e := mustEntry(t, when, "EDIT-3", "jsmith"); e.IsZero() {
		t.Errorf("%v: IsZero() = true", e)
	}
}

func TestEntryEqual(t *testing.T) {
	a := mustEntry(t, when, "EDIT-3", "jsmith")
	b := mustEntry(t, when, "EDIT-3", "jsmith")
	c := mustEntry(t, when.Add(time.Second), "EDIT-3", "jsmith")
	if !a.Equal(b) || a != b {
		t.Errorf("identical entries are not equal")
	}
	if a.Equal(c) {
		t.Errorf("entries one second apart are equal")
	}
}
