// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"binhistory.io/binlog"
	"binhistory.io/logfile"
)

func (s *State) touch(args ...string) {
	const help = `
Touch records an access at the current time in each named log, creating
the log if it does not exist. Only the ten most recent entries of a log
are kept.

The computer and user names come from the -computer and -user flags,
then from the configuration file, and finally from the host name and
the logged-in user. Each name must be printable and at most 15
characters long.
`
	fs := flag.NewFlagSet("touch", flag.ExitOnError)
	computer, user := identityFlags(fs)
	names := s.ParseArgs(fs, args, 1, -1, help, "touch [-computer name] [-user name] log...")
	e := s.now(*computer, *user)
	for _, name := range s.GlobAllLocal(names) {
		if err := logfile.Touch(name, e, s.LogOptions()); err != nil {
			s.Fail(err)
		}
	}
}

func (s *State) touchbin(args ...string) {
	const help = `
Touchbin records an access at the current time in the log of each named
bin, as touch does. The log of "Reel 1.avb" is "Reel 1.log" beside it.

It is an error for a bin not to exist unless the -missingok flag is set.
`
	fs := flag.NewFlagSet("touchbin", flag.ExitOnError)
	computer, user := identityFlags(fs)
	missingOK := fs.Bool("missingok", false, "write the log even if the bin does not exist")
	names := s.ParseArgs(fs, args, 1, -1, help, "touchbin [-missingok] [-computer name] [-user name] bin...")
	e := s.now(*computer, *user)
	for _, name := range s.GlobAllLocal(names) {
		if err := logfile.TouchBin(name, e, *missingOK, s.LogOptions()); err != nil {
			s.Fail(err)
		}
	}
}

func identityFlags(fs *flag.FlagSet) (computer, user *string) {
	computer = fs.String("computer", "", "computer `name` to record (default from config or host name)")
	user = fs.String("user", "", "user `name` to record (default from config or login name)")
	return computer, user
}

// now returns an entry for an access at the current time by the given
// computer and user, or by the defaults if they are empty.
func (s *State) now(computer, user string) binlog.Entry {
	computer, user = s.Identity(computer, user)
	e, err := logfile.Now(computer, user)
	if err != nil {
		s.Exit(err)
	}
	return e
}
