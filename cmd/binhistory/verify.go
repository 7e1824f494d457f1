// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"binhistory.io/logfile"
)

func (s *State) verify(args ...string) {
	const help = `
Verify checks that each named log is in canonical form: that decoding
it and encoding the result reproduces the file byte for byte. A log
with more than ten entries, out of order, or with nonstandard spacing
is reported as differing, and the exit status is non-zero.

The -v flag also reports the logs that are canonical.
`
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	verbose := fs.Bool("v", false, "report canonical logs too")
	names := s.ParseArgs(fs, args, 1, -1, help, "verify [-v] log...")
	for _, name := range s.logPaths(names) {
		ok, err := logfile.Verify(name, s.LogOptions())
		switch {
		case err != nil:
			s.Fail(err)
		case !ok:
			fmt.Fprintf(s.Stdout, "%s: differs\n", name)
			s.ExitCode = 1
		case *verbose:
			fmt.Fprintf(s.Stdout, "%s: ok\n", name)
		}
	}
}
