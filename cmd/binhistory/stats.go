// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh/terminal"

	"binhistory.io/logfile"
	"binhistory.io/report"
	"binhistory.io/scan"
	"binhistory.io/stats"
)

func (s *State) stats(args ...string) {
	const help = `
Stats reads every log in a project directory, or the named logs, and
prints how many were readable, the users and computers that appear in
them with their number of entries, the earliest and latest entries,
and the shortest and longest names.

The -html flag prints the report as an HTML page titled by the -title
flag, which defaults to the name of the project directory.

When standard error is a terminal, stats shows each log as it is read.
`
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	html := fs.Bool("html", false, "print the report as HTML")
	title := fs.String("title", "", "`title` of the HTML report")
	names := s.ParseArgs(fs, args, 1, -1, help, "stats [-html] [-title title] projectdir | log...")

	paths := s.logPaths(names)
	p := newProgress(s.Stderr)
	st := stats.New()
	opts := s.LogOptions()
	for _, path := range paths {
		p.show(path)
		l, err := logfile.ReadFile(path, opts)
		st.AddResult(scan.Result{Path: path, Log: l, Err: err})
	}
	p.done()

	if !*html {
		if err := report.Text(s.Stdout, st); err != nil {
			s.Exit(err)
		}
		return
	}
	if *title == "" {
		*title = filepath.Base(names[0])
	}
	if err := report.HTML(s.Stdout, *title, st); err != nil {
		s.Exit(err)
	}
}

// logPaths returns the logs named by args: every log in the project
// if args is a single directory, or else the expanded arguments.
func (s *State) logPaths(args []string) []string {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			paths, err := scan.Logs(args[0], s.Matcher())
			if err != nil {
				s.Exit(err)
			}
			return paths
		}
	}
	return s.GlobAllLocal(args)
}

// readLogs reads the logs named by args as logPaths selects them.
func (s *State) readLogs(args []string) []scan.Result {
	return scan.ReadFiles(s.logPaths(args), s.LogOptions())
}

// progress rewrites a single status line on a terminal.
// On anything else it does nothing.
type progress struct {
	w io.Writer
}

func newProgress(w io.Writer) *progress {
	f, ok := w.(*os.File)
	if !ok || !terminal.IsTerminal(int(f.Fd())) {
		return &progress{}
	}
	return &progress{w: w}
}

// show replaces the status line with msg.
func (p *progress) show(msg string) {
	if p.w != nil {
		fmt.Fprintf(p.w, "\033[K%s\r", msg)
	}
}

// done clears the status line.
func (p *progress) done() {
	if p.w != nil {
		fmt.Fprint(p.w, "\033[K")
	}
}
