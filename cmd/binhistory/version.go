// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"binhistory.io/version"
)

func (s *State) version(args ...string) {
	const help = `
Version prints a summary of the git version used to build the command.
`
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	s.ParseArgs(fs, args, 0, 0, help, "version")
	fmt.Fprint(s.Stdout, version.Version())
}
