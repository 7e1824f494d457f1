// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"binhistory.io/log"
	"binhistory.io/report"
	"binhistory.io/scan"
)

func (s *State) find(args ...string) {
	const help = `
Find walks a project directory and prints, for each bin with a log, the
user and computer that last accessed it and when. Bins without a log,
with an empty log, or with a log that cannot be read are skipped.
Hidden files and directories are ignored.

The global -pattern flag restricts the bins considered to those whose
names match a glob pattern.
`
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	dir := s.ParseArgs(fs, args, 1, 1, help, "find projectdir")[0]
	results, err := scan.ReadBins(dir, s.Matcher(), s.LogOptions())
	if err != nil {
		s.Exit(err)
	}
	for _, r := range results {
		if r.Err != nil {
			log.Debug.Printf("find: skipping %s: %v", r.Bin, r.Err)
		}
	}
	if err := report.Find(s.Stdout, results); err != nil {
		s.Exit(err)
	}
}
