// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"binhistory.io/binlog"
	"binhistory.io/errors"
	"binhistory.io/logfile"
	"binhistory.io/report"
)

func (s *State) show(args ...string) {
	const help = `
Show prints the entries of each named log, oldest first, in the
fixed-width form in which logs are stored. Only the ten most recent
entries are shown.

A bin (.avb) argument selects the bin's log. The argument - reads a log
from standard input; its timestamps are dated against the -maxyear flag
or, if that is unset, the current year.

The -l flag prints each entry with its full date instead.
`
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	long := fs.Bool("l", false, "print full dates")
	names := s.ParseArgs(fs, args, 1, -1, help, "show [-l] log...")
	names = s.GlobAllLocal(names)
	for _, name := range names {
		l, err := s.readLog(name)
		if err != nil {
			s.Fail(err)
			continue
		}
		if len(names) > 1 {
			fmt.Fprintf(s.Stdout, "%s:\n", name)
		}
		if !*long {
			if _, err := l.WriteTo(s.Stdout); err != nil {
				s.Exit(err)
			}
			continue
		}
		for _, e := range l.Entries() {
			fmt.Fprintf(s.Stdout, "%s  %-*s  %s\n", e.Timestamp().Format(report.StatsTime),
				binlog.MaxFieldLength, e.Computer(), e.User())
		}
	}
}

// readLog reads the log named on the command line.
func (s *State) readLog(name string) (*binlog.Log, error) {
	const op errors.Op = "show"
	opts := s.LogOptions()
	switch {
	case name == "-":
		text, err := opts.Charset.Decode(s.ReadAll(""))
		if err != nil {
			return nil, errors.E(op, errors.Path("-"), err)
		}
		year := opts.MaxYear
		if year == 0 {
			year = time.Now().Year()
		}
		l, err := binlog.ParseLog(text, year)
		if err != nil {
			return nil, errors.E(op, errors.Path("-"), err)
		}
		return l, nil
	case strings.EqualFold(filepath.Ext(name), logfile.BinExtension):
		return logfile.ReadBin(name, opts)
	}
	return logfile.ReadFile(name, opts)
}
