// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binlog

import (
	"strings"
	"testing"
	"time"

	"binhistory.io/errors"
)

// sampleLine is a real log line: timestamp, computer and user fields of
// 21, 26 and 21 characters.
const sampleLine = "Wed Dec 15 09:47:51  " + "Computer: EDIT-3          " + "User: jsmith         "

func TestParseSample(t *testing.T) {
	if len(sampleLine) != LineLength {
		t.Fatalf("sample line is %d characters; want %d", len(sampleLine), LineLength)
	}
	e, err := Parse(sampleLine+"\n", 2021)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2021, time.December, 15, 9, 47, 51, 0, time.UTC)
	if !e.Timestamp().Equal(want) {
		t.Errorf("timestamp = %v; want %v", e.Timestamp(), want)
	}
	if e.Computer() != "EDIT-3" {
		t.Errorf("computer = %q; want %q", e.Computer(), "EDIT-3")
	}
	if e.User() != "jsmith" {
		t.Errorf("user = %q; want %q", e.User(), "jsmith")
	}
	if got := Format(e); got != sampleLine {
		t.Errorf("Format = %q; want %q", got, sampleLine)
	}
}

func TestParseYearDisambiguation(t *testing.T) {
	tests := []struct {
		text    string
		maxYear int
		year    int
	}{
		{"Wed Dec 15 09:47:51", 2021, 2021},
		{"Wed Dec 15 09:47:51", 2026, 2021},
		{"Tue Dec 15 09:47:51", 2021, 2020},
		{"Thu Dec 15 09:47:51", 2021, 2016},
		{"Sat Feb 29 12:00:00", 2021, 2020},
		{"Mon Feb 29 12:00:00", 2021, 2016},
		{"Sun Oct  5 08:00:00", 2025, 2025},
		{"Sun Oct 05 08:00:00", 2025, 2025},
	}
	for _, test := range tests {
		ts, err := parseTimestamp(test.text, test.maxYear)
		if err != nil {
			t.Errorf("parseTimestamp(%q, %d): %v", test.text, test.maxYear, err)
			continue
		}
		if ts.Year() != test.year {
			t.Errorf("parseTimestamp(%q, %d) year = %d; want %d", test.text, test.maxYear, ts.Year(), test.year)
		}
		if got, want := ts.Weekday().String()[:3], test.text[:3]; got != want {
			t.Errorf("parseTimestamp(%q, %d) fell on %s; want %s", test.text, test.maxYear, got, want)
		}
		if ts.Year() > test.maxYear || ts.Year() < test.maxYear-YearWindow {
			t.Errorf("parseTimestamp(%q, %d) year %d outside window", test.text, test.maxYear, ts.Year())
		}
	}
}

func TestParseYearExhausted(t *testing.T) {
	// Between 2011 and 2021, February 29th fell on a Wednesday (2012),
	// a Monday (2016) and a Saturday (2020), never on a Tuesday.
	_, err := parseTimestamp("Tue Feb 29 10:00:00", 2021)
	if !errors.Is(errors.Parse, err) {
		t.Fatalf("got %v; want parse error", err)
	}
	if !strings.Contains(err.Error(), "no valid year") {
		t.Errorf("error %q does not explain the failure", err)
	}
	// Widening the window by moving the reference year finds 2008.
	ts, err := parseTimestamp("Fri Feb 29 10:00:00", 2018)
	if err != nil {
		t.Fatal(err)
	}
	if ts.Year() != 2008 {
		t.Errorf("year = %d; want 2008", ts.Year())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind errors.Kind
		frag string
	}{
		{"short", "Wed Dec 15 09:47:51  Computer: EDIT-3", errors.Parse, "Computer: EDIT-3"},
		{"bad month", "Wed Dex 15 09:47:51  " + "Computer: EDIT-3          " + "User: jsmith         ", errors.Parse, "Wed Dex 15"},
		{"bad weekday", "Wen Dec 15 09:47:51  " + "Computer: EDIT-3          " + "User: jsmith         ", errors.Parse, "Wen Dec 15"},
		{"bad clock", "Wed Dec 15 09:47:xx  " + "Computer: EDIT-3          " + "User: jsmith         ", errors.Parse, "09:47:xx"},
		{"computer prefix", "Wed Dec 15 09:47:51  " + "Komputer: EDIT-3          " + "User: jsmith         ", errors.Parse, "Komputer: EDIT-3"},
		{"user prefix", "Wed Dec 15 09:47:51  " + "Computer: EDIT-3          " + "Usr:  jsmith         ", errors.Parse, "Usr:  jsmith"},
		{"empty computer", "Wed Dec 15 09:47:51  " + "Computer:                 " + "User: jsmith         ", errors.FieldLength, "computer"},
		{"empty user", "Wed Dec 15 09:47:51  " + "Computer: EDIT-3          " + "User:                ", errors.FieldLength, "user"},
		{"long computer", "Wed Dec 15 09:47:51  " + "Computer: EDIT-3-SUITE-ABC" + "User: jsmith         ", errors.FieldLength, "EDIT-3-SUITE-ABC"},
		{"control character", "Wed Dec 15 09:47:51  " + "Computer: EDIT\x07-3         " + "User: jsmith         ", errors.FieldContent, "EDIT"},
	}
	for _, test := range tests {
		_, err := Parse(test.line, 2021)
		if err == nil {
			t.Errorf("%s: Parse succeeded", test.name)
			continue
		}
		if !errors.Match(errors.E(errors.Op("binlog.Parse"), test.kind), err) {
			t.Errorf("%s: got %v; want %v", test.name, err, test.kind)
		}
		if !strings.Contains(err.Error(), test.frag) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.frag)
		}
	}
}

func TestParseIgnoresTrailingText(t *testing.T) {
	e, err := Parse(sampleLine+"extra\r\n", 2021)
	if err != nil {
		t.Fatal(err)
	}
	if e.User() != "jsmith" {
		t.Errorf("user = %q; want jsmith", e.User())
	}
}

func TestFormatWidths(t *testing.T) {
	e := mustEntry(t, time.Date(2019, time.March, 4, 17, 5, 9, 0, time.UTC), "ASSISTANT-EDIT1", "abcdefghijklmno")
	line := Format(e)
	if len(line) != LineLength {
		t.Fatalf("line is %d characters; want %d: %q", len(line), LineLength, line)
	}
	want := "Mon Mar 04 17:05:09  " + "Computer: ASSISTANT-EDIT1 " + "User: abcdefghijklmno"
	if line != want {
		t.Errorf("Format = %q; want %q", line, want)
	}
}

func TestFormatNonASCII(t *testing.T) {
	e := mustEntry(t, time.Date(2020, time.June, 1, 8, 0, 0, 0, time.UTC), "SALLE-MONTAGE", "José")
	line := Format(e)
	if n := len([]rune(line)); n != LineLength {
		t.Fatalf("line is %d characters; want %d", n, LineLength)
	}
	back, err := Parse(line, 2020)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip gave %v; want %v", back, e)
	}
}

func TestRoundTrip(t *testing.T) {
	start := time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		// Step by a prime number of hours to visit every weekday and month.
		ts := start.Add(time.Duration(i*397) * time.Hour).Add(time.Duration(i) * time.Second)
		e := mustEntry(t, ts, "EDIT-3", "jsmith")
		for _, maxYear := range []int{ts.Year(), ts.Year() + 1, ts.Year() + YearWindow} {
			got, err := Parse(Format(e), maxYear)
			if err != nil {
				t.Fatalf("Parse(%q, %d): %v", Format(e), maxYear, err)
			}
			if !got.Equal(e) {
				t.Fatalf("Parse(Format(%v), %d) = %v", e, maxYear, got)
			}
		}
	}
}
