// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package subcmd holds the state shared by the binhistory subcommands:
// where their output goes, how they fail, and the configuration that
// decides how logs are read and written.
package subcmd // import "binhistory.io/subcmd"

import (
	"fmt"
	"io"
	"os"
	"time"

	"binhistory.io/binlog"
	"binhistory.io/config"
	"binhistory.io/errors"
	"binhistory.io/logfile"
	"binhistory.io/scan"
	"binhistory.io/shutdown"
)

// Program is the name printed before every message.
const Program = "binhistory"

// State describes the state of a subcommand.
// See the comments for Exitf to see how Interactive is used.
// It allows a program to run multiple commands.
type State struct {
	Name        string         // Name of the subcommand we are running.
	Config      *config.Config // Config; never nil after Init.
	Interactive bool           // Whether the command is line-by-line.
	Stdin       io.Reader      // Where to read standard input
	Stdout      io.Writer      // Where to write standard output.
	Stderr      io.Writer      // Where to write error output.
	ExitCode    int            // Exit with non-zero status for minor problems.
}

// NewState returns a new State for the named subcommand.
func NewState(name string) *State {
	s := &State{Name: name}
	s.DefaultIO()
	return s
}

// Init sets the configuration for the State. A nil config selects the
// defaults.
func (s *State) Init(cfg *config.Config) {
	if cfg == nil {
		cfg = config.New()
	}
	s.Config = cfg
}

func (s *State) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	s.Stdin = stdin
	s.Stdout = stdout
	s.Stderr = stderr
}

func (s *State) DefaultIO() {
	s.SetIO(os.Stdin, os.Stdout, os.Stderr)
}

// Exitf prints the error and exits the program.
// If we are interactive, it calls panic("exit"), which is intended to be recovered
// from by the calling interpreter.
// We don't use log (although the packages we call do) because the errors
// are for regular people.
func (s *State) Exitf(format string, args ...interface{}) {
	format = fmt.Sprintf("%s: %s: %s\n", Program, s.Name, format)
	fmt.Fprintf(s.Stderr, format, args...)
	if s.Interactive {
		panic("exit")
	}
	s.ExitCode = 1
	s.ExitNow()
}

// Exit calls s.Exitf with the error.
func (s *State) Exit(err error) {
	s.Exitf("%s", err)
}

// ExitNow terminates the process with the current ExitCode.
func (s *State) ExitNow() {
	shutdown.Now(s.ExitCode)
}

// Failf logs the error and sets the exit code. It does not exit the program.
func (s *State) Failf(format string, args ...interface{}) {
	format = fmt.Sprintf("%s: %s: %s\n", Program, s.Name, format)
	fmt.Fprintf(s.Stderr, format, args...)
	s.ExitCode = 1
}

// Fail calls s.Failf with the error.
func (s *State) Fail(err error) {
	s.Failf("%v", err)
}

// config returns the State's configuration, or the defaults.
func (s *State) config() *config.Config {
	if s.Config == nil {
		return config.New()
	}
	return s.Config
}

// LogOptions returns the options for reading and writing log files
// given by the configuration.
func (s *State) LogOptions() logfile.Options {
	cfg := s.config()
	return logfile.Options{
		Charset: cfg.Charset(),
		MaxYear: cfg.MaxYear(),
	}
}

// Matcher returns the bin selector given by the configured pattern, or
// exits if the pattern is malformed.
func (s *State) Matcher() *scan.Matcher {
	m, err := scan.NewMatcher(s.config().Pattern())
	if err != nil {
		s.Exit(err)
	}
	return m
}

// Identity returns the computer and user names to record in a new entry.
// Explicit arguments take precedence over the configuration, which takes
// precedence over the names of the host and the logged-in user.
// It exits if no usable name can be found.
func (s *State) Identity(computer, user string) (string, string) {
	cfg := s.config()
	computer = first(computer, cfg.Computer(), config.DefaultComputer())
	user = first(user, cfg.UserName(), config.DefaultUserName())
	// Validate now, so the complaint names the culprit.
	if _, err := binlog.NewEntry(time.Time{}, computer, user); err != nil {
		s.Exit(errors.E(errors.Invalid, err))
	}
	return computer, user
}

func first(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}
