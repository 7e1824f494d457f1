// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binlog

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"binhistory.io/errors"
)

// Log is a collection of entries. It may store any number of them, but
// Entries, String and WriteTo only ever see the MaxEntries most recent,
// in ascending order of time. Sorting and trimming happen each time the
// log is viewed, never when an entry is added.
//
// The zero Log is empty and ready to use. A Log is not safe for
// concurrent modification.
type Log struct {
	entries []Entry
}

var _ io.WriterTo = (*Log)(nil)

// New returns a log holding the given entries. Their order does not
// matter, and identical entries are kept as distinct entries. The entries
// must have been made by NewEntry or Parse; see Entry.
func New(entries ...Entry) *Log {
	return &Log{entries: append([]Entry(nil), entries...)}
}

// FromSlice returns a log holding the entries in v, which must be a
// []Entry, a []*Entry, a []interface{} holding only Entry or *Entry
// values, or another *Log. Anything else, including a single Entry or a
// zero Entry among the elements, is an error of kind Type.
func FromSlice(v interface{}) (*Log, error) {
	const op errors.Op = "binlog.FromSlice"
	switch v := v.(type) {
	case []Entry:
		for i, e := range v {
			if e.IsZero() {
				return nil, errors.E(op, errors.Type, errors.Errorf("element %d is the zero entry", i))
			}
		}
		return New(v...), nil
	case *Log:
		if v == nil {
			return nil, errors.E(op, errors.Type, "nil log")
		}
		return New(v.entries...), nil
	case []*Entry:
		l := &Log{entries: make([]Entry, 0, len(v))}
		for i, e := range v {
			if e == nil || e.IsZero() {
				return nil, errors.E(op, errors.Type, errors.Errorf("element %d is nil or the zero entry", i))
			}
			l.entries = append(l.entries, *e)
		}
		return l, nil
	case []interface{}:
		l := &Log{entries: make([]Entry, 0, len(v))}
		for i, x := range v {
			switch x := x.(type) {
			case Entry:
				if x.IsZero() {
					return nil, errors.E(op, errors.Type, errors.Errorf("element %d is the zero entry", i))
				}
				l.entries = append(l.entries, x)
			case *Entry:
				if x == nil || x.IsZero() {
					return nil, errors.E(op, errors.Type, errors.Errorf("element %d is nil or the zero entry", i))
				}
				l.entries = append(l.entries, *x)
			default:
				return nil, errors.E(op, errors.Type, errors.Errorf("element %d is %T, not a log entry", i, x))
			}
		}
		return l, nil
	case Entry, *Entry:
		return nil, errors.E(op, errors.Type, "got a single entry, want a sequence of entries")
	}
	return nil, errors.E(op, errors.Type, errors.Errorf("got %T, want a sequence of entries", v))
}

// Entries returns the MaxEntries most recent entries in ascending order
// of time; entries with equal timestamps keep the order in which they
// were added. The result is computed afresh on each call and belongs to
// the caller.
func (l *Log) Entries() []Entry {
	sorted := append([]Entry(nil), l.entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].timestamp.Before(sorted[j].timestamp)
	})
	if len(sorted) > MaxEntries {
		sorted = sorted[len(sorted)-MaxEntries:]
	}
	return sorted
}

// Len returns the number of entries Entries would return.
func (l *Log) Len() int {
	if len(l.entries) > MaxEntries {
		return MaxEntries
	}
	return len(l.entries)
}

// Empty reports whether the log has no entries.
func (l *Log) Empty() bool {
	return len(l.entries) == 0
}

// Stored returns the number of entries held, which may transiently exceed
// MaxEntries after appends.
func (l *Log) Stored() int {
	return len(l.entries)
}

// Earliest returns the oldest entry that Entries would return.
func (l *Log) Earliest() (Entry, bool) {
	entries := l.Entries()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// Latest returns the most recent entry in the log.
func (l *Log) Latest() (Entry, bool) {
	entries := l.Entries()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// Append adds e to the log. Adding the zero Entry is a programming
// error; FromSlice is the checked way to build a log from unvetted values.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// WithAppended returns a new log holding the entries of l and e.
// The receiver is not modified.
func (l *Log) WithAppended(e Entry) *Log {
	n := &Log{entries: make([]Entry, 0, len(l.entries)+1)}
	n.entries = append(n.entries, l.entries...)
	n.entries = append(n.entries, e)
	return n
}

// String returns the text of the log: the formatted line of each entry
// returned by Entries, each followed by a newline.
func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.Entries() {
		b.WriteString(Format(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the text of the log to w.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	const op errors.Op = "binlog.Log.WriteTo"
	n, err := io.WriteString(w, l.String())
	if err != nil {
		return int64(n), errors.E(op, errors.IO, err)
	}
	return int64(n), nil
}

// ParseLog decodes the text of a log. Blank lines are skipped. Every line is
// decoded with the same reference year; see the Parse function for its
// meaning. A single bad line fails the whole parse.
func ParseLog(text string, maxYear int) (*Log, error) {
	const op errors.Op = "binlog.ParseLog"
	l, err := Read(strings.NewReader(text), maxYear)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return l, nil
}

// Read decodes a log from r as ParseLog does. An error identifies the
// number of the first bad line; no entries are returned with it. Lines may
// be of any length; only their first 68 characters are decoded.
func Read(r io.Reader, maxYear int) (*Log, error) {
	const op errors.Op = "binlog.Read"
	l := &Log{}
	br := bufio.NewReader(r)
	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.E(op, errors.Line(line), errors.IO, err)
		}
		if strings.TrimSpace(text) != "" {
			e, perr := Parse(strings.TrimRight(text, "\r\n"), maxYear)
			if perr != nil {
				return nil, errors.E(op, errors.Line(line), perr)
			}
			l.entries = append(l.entries, e)
		}
		if err == io.EOF {
			return l, nil
		}
	}
}
