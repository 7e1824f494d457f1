// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats gathers statistics about the logs of a project: who
// touched bins, from which computers, and when.
package stats // import "binhistory.io/stats"

import (
	"sort"
	"unicode/utf8"

	"binhistory.io/binlog"
	"binhistory.io/log"
	"binhistory.io/scan"
)

// Count is the number of entries recorded for a user or computer.
type Count struct {
	Name    string
	Entries int
}

// Extreme is an entry found to be earliest or latest, and the log that
// holds it.
type Extreme struct {
	Entry binlog.Entry
	Path  string
}

// Failure records a log that could not be read.
type Failure struct {
	Path string
	Err  error
}

// Stats accumulates statistics over many logs. The zero value is empty
// and ready to use.
type Stats struct {
	// Good is the number of logs read successfully.
	Good int
	// Bad is the number of logs that could not be read.
	Bad int
	// Empty is the number of good logs that held no entries.
	Empty int
	// Entries is the number of entries across all good logs.
	Entries int

	// Earliest and Latest are the extreme entries seen, if any.
	Earliest, Latest *Extreme

	// Shortest and longest names seen, by character count.
	// Ties go to the name seen first.
	ShortestUser, LongestUser         string
	ShortestComputer, LongestComputer string

	// Failures lists the logs counted in Bad.
	Failures []Failure

	users     map[string]int
	computers map[string]int
}

// New returns an empty Stats.
func New() *Stats {
	return new(Stats)
}

// Gather returns the statistics of the given read results.
func Gather(results []scan.Result) *Stats {
	s := New()
	for _, r := range results {
		s.AddResult(r)
	}
	return s
}

// AddResult adds a log, or its failure, to the statistics.
func (s *Stats) AddResult(r scan.Result) {
	if r.Err != nil {
		s.AddError(r.Path, r.Err)
		return
	}
	s.Add(r.Path, r.Log)
}

// AddError counts a log that could not be read.
func (s *Stats) AddError(path string, err error) {
	log.Debug.Printf("stats: %s: %v", path, err)
	s.Bad++
	s.Failures = append(s.Failures, Failure{Path: path, Err: err})
}

// Add adds the entries of l, read from path, to the statistics.
func (s *Stats) Add(path string, l *binlog.Log) {
	s.Good++
	if s.users == nil {
		s.users = make(map[string]int)
		s.computers = make(map[string]int)
	}
	if l.Empty() {
		s.Empty++
		return
	}
	for _, e := range l.Entries() {
		s.Entries++
		s.users[e.User()]++
		s.computers[e.Computer()]++
		s.ShortestUser = shorter(s.ShortestUser, e.User())
		s.LongestUser = longer(s.LongestUser, e.User())
		s.ShortestComputer = shorter(s.ShortestComputer, e.Computer())
		s.LongestComputer = longer(s.LongestComputer, e.Computer())
	}
	first, _ := l.Earliest()
	if s.Earliest == nil || first.Timestamp().Before(s.Earliest.Entry.Timestamp()) {
		s.Earliest = &Extreme{Entry: first, Path: path}
	}
	last, _ := l.Latest()
	if s.Latest == nil || last.Timestamp().After(s.Latest.Entry.Timestamp()) {
		s.Latest = &Extreme{Entry: last, Path: path}
	}
}

func shorter(cur, name string) string {
	if cur == "" || utf8.RuneCountInString(name) < utf8.RuneCountInString(cur) {
		return name
	}
	return cur
}

func longer(cur, name string) string {
	if utf8.RuneCountInString(name) > utf8.RuneCountInString(cur) {
		return name
	}
	return cur
}

// Users returns the entry count of each user, most active first.
func (s *Stats) Users() []Count {
	return counts(s.users)
}

// Computers returns the entry count of each computer, most active first.
func (s *Stats) Computers() []Count {
	return counts(s.computers)
}

// counts sorts m by descending count, then by name.
func counts(m map[string]int) []Count {
	c := make([]Count, 0, len(m))
	for name, n := range m {
		c = append(c, Count{Name: name, Entries: n})
	}
	sort.Slice(c, func(i, j int) bool {
		if c[i].Entries != c[j].Entries {
			return c[i].Entries > c[j].Entries
		}
		return c[i].Name < c[j].Name
	})
	return c
}
