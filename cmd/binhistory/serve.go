// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"binhistory.io/web"
)

func (s *State) serve(args ...string) {
	const help = `
Serve runs an HTTP server that reports on the logs of a project
directory. The root page is the statistics report as HTML; the text and
CSV forms are at /report.txt and /report.csv, and /logs/ lists the logs
with a page for each. Logs are read afresh for each request.

The server listens on the address given by the global -http flag or the
configuration file, and runs until interrupted.
`
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	maxConns := fs.Int("maxconns", web.MaxConns, "maximum number of simultaneous `connections`")
	dir := s.ParseArgs(fs, args, 1, 1, help, "serve [-maxconns n] projectdir")[0]
	h := web.New(dir, s.Matcher(), s.LogOptions())
	if err := web.ListenAndServe(s.Config.HTTPAddr(), h, *maxConns); err != nil {
		s.Exit(err)
	}
}
