// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"binhistory.io/charset"
	"binhistory.io/config"
	"binhistory.io/errors"
	"binhistory.io/flags"
	"binhistory.io/log"
	"binhistory.io/subcmd"
	"binhistory.io/version"
)

const intro = `
The binhistory command reads and writes the access logs that a video
editing system keeps beside each bin of a project. A bin "Reel 1.avb"
has its log in "Reel 1.log": up to ten fixed-width lines, oldest first,
each naming the time of an access and the computer and user that made it.

The subcommands print logs (show), record a new access (touch,
touchbin), report who last touched each bin of a project (find),
gather statistics across a project (stats, export), check that logs
are in canonical form (verify), and serve the reports over HTTP
(serve).

Each subcommand has a -help flag that explains it in more detail.
For instance

	binhistory touch -help

explains the purpose and usage of the touch subcommand.

There is a set of global flags such as -config to identify the
configuration file to use (default $HOME/binhistory/config), -encoding
to name the text encoding of log files, and -maxyear to fix the year
against which the year-less timestamps of a log are dated. These flags
apply across the subcommands and must appear before the subcommand name:

	binhistory -maxyear 2010 show "Reel 1.log"

For a list of available subcommands and global flags, run

	binhistory -help
`

var commands = map[string]func(*State, ...string){
	"export":   (*State).export,
	"find":     (*State).find,
	"serve":    (*State).serve,
	"show":     (*State).show,
	"stats":    (*State).stats,
	"touch":    (*State).touch,
	"touchbin": (*State).touchbin,
	"verify":   (*State).verify,
	"version":  (*State).version,
}

// State wraps the shared subcommand state with the commands of binhistory.
type State struct {
	*subcmd.State
}

func main() {
	flag.Usage = usage
	state, args, ok := setup(flag.CommandLine, os.Args[1:])
	if flags.Version {
		fmt.Print(version.Version())
		os.Exit(0)
	}
	if !ok || len(args) == 0 {
		fmt.Fprint(os.Stderr, intro+"\n")
		os.Exit(2)
	}
	state.run(args)
	state.ExitNow()
}

// setup parses the global flags in args into fs and builds the State
// for the subcommand they name. It returns the State and the subcommand
// with its arguments. If there is no subcommand, ok is false.
func setup(fs *flag.FlagSet, args []string) (state *State, cmdArgs []string, ok bool) {
	flags.ParseArgsInto(fs, args, flags.Client, "http", "pattern")
	if fs.NArg() < 1 {
		return nil, nil, false
	}
	state = newState(strings.ToLower(fs.Arg(0)))
	cfg, err := loadConfig(fs)
	if err != nil {
		state.Exit(err)
	}
	state.Init(cfg)
	return state, fs.Args(), true
}

func newState(op string) *State {
	return &State{State: subcmd.NewState(op)}
}

// loadConfig reads the configuration file named by the -config flag and
// applies the global flags set explicitly in fs on top of it. A missing
// configuration file is not an error.
func loadConfig(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.FromFile(flags.Config)
	if errors.Is(errors.NotExist, err) {
		log.Debug.Printf("binhistory: no config file %s; using defaults", flags.Config)
		cfg, err = config.InitConfig(strings.NewReader(""))
	}
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "encoding":
			var cs charset.Charset
			cs, err = charset.Lookup(flags.Encoding)
			cfg = config.SetCharset(cfg, cs)
		case "http":
			cfg = config.SetHTTPAddr(cfg, flags.HTTPAddr)
		case "maxyear":
			if flags.MaxYear < 0 {
				err = errors.E(errors.Invalid, errors.Errorf("bad -maxyear %d", flags.MaxYear))
			}
			cfg = config.SetMaxYear(cfg, flags.MaxYear)
		case "pattern":
			cfg = config.SetPattern(cfg, flags.Pattern)
		}
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// run runs the subcommand named by args[0] with the remaining arguments.
func (s *State) run(args []string) {
	s.Name = strings.ToLower(args[0])
	s.getCommand(s.Name)(s, args[1:]...)
}

// getCommand looks up the command named by op. If the command can't be
// found, it exits after listing the commands that do exist.
func (s *State) getCommand(op string) func(*State, ...string) {
	if fn := commands[op]; fn != nil {
		return fn
	}
	fmt.Fprintf(s.Stderr, "%s: no such command %q\n", subcmd.Program, op)
	printCommands(s.Stderr)
	if s.Interactive {
		panic("exit")
	}
	s.ExitCode = 2
	s.ExitNow()
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of binhistory:\n")
	fmt.Fprintf(os.Stderr, "\tbinhistory [globalflags] <command> [flags] <path>\n")
	printCommands(os.Stderr)
	fmt.Fprintf(os.Stderr, "Global flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func printCommands(w io.Writer) {
	fmt.Fprintf(w, "Binhistory commands:\n")
	var cmds []string
	for cmd := range commands {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	for _, cmd := range cmds {
		fmt.Fprintf(w, "\t%s\n", cmd)
	}
}
