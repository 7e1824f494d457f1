// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"io"

	"binhistory.io/report"
)

func (s *State) export(args ...string) {
	const help = `
Export writes every entry of every log in a project directory, or of the
named logs, as CSV with the columns path, timestamp, computer and user.
Logs that cannot be read are reported and skipped.

The output goes to standard output unless the -o flag names a file,
which must not already exist unless the -f flag is set.
`
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output `file` (default standard output)")
	force := fs.Bool("f", false, "overwrite an existing output file")
	names := s.ParseArgs(fs, args, 1, -1, help, "export [-o file] [-f] projectdir | log...")

	results := s.readLogs(names)
	for _, r := range results {
		if r.Err != nil {
			s.Fail(r.Err)
		}
	}
	var w io.Writer = s.Stdout
	if *out != "" {
		if !*force {
			s.ShouldNotExist(*out)
		}
		f := s.CreateLocal(*out)
		defer func() {
			if err := f.Close(); err != nil {
				s.Exit(err)
			}
		}()
		w = f
	}
	if err := report.CSV(w, results); err != nil {
		s.Exit(err)
	}
}
