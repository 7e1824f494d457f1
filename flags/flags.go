// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags defines command-line flags to make them consistent between binaries.
// Not all flags make sense for all binaries.
package flags // import "binhistory.io/flags"

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"binhistory.io/charset"
	"binhistory.io/log"
)

// flagVar represents a flag in this package.
type flagVar struct {
	set func(fs *flag.FlagSet) // Set the value at parse time.
	arg func() string          // Return the argument to set the flag.
}

const (
	defaultHTTPAddr = "localhost:8080"
	defaultLog      = "info"
)

// None is the set of no flags. It is rarely needed as most programs
// use either the Client or Server set.
var None = []string{}

// Client is the set of flags most useful in clients. It can be passed as the
// argument to Parse to set up the package for a client.
var Client = []string{
	"config", "encoding", "log", "logfile", "maxyear", "version",
}

// Server is the set of flags most useful in servers. It can be passed as the
// argument to Parse to set up the package for a server.
var Server = []string{
	"config", "encoding", "http", "log", "logfile", "maxyear",
}

// Parse registers the command-line flags for the given default flags list, plus
// any extra flag names, and calls flag.Parse. Passing no flag names in either
// list registers all flags. Passing an unknown name triggers a panic.
// The Server and Client variables contain useful default sets.
//
// Examples:
//
//	flags.Parse(flags.Client) // Register all client flags.
//	flags.Parse(flags.Server, "pattern") // Register all server flags plus pattern.
//	flags.Parse(nil) // Register all flags.
//	flags.Parse(flags.None, "http") // Register only the http flag.
func Parse(defaultList []string, extras ...string) {
	ParseArgsInto(flag.CommandLine, os.Args[1:], defaultList, extras...)
}

// ParseArgsInto registers the command-line flags for the given default
// flags list, plus any extra flag names, and calls fs.Parse with args.
// It is Parse for an arbitrary flag set.
func ParseArgsInto(fs *flag.FlagSet, args []string, defaultList []string, extras ...string) {
	if len(defaultList) == 0 && len(extras) == 0 {
		RegisterInto(fs)
	} else {
		if len(defaultList) > 0 {
			RegisterInto(fs, defaultList...)
		}
		if len(extras) > 0 {
			RegisterInto(fs, extras...)
		}
	}
	fs.Parse(args)
}

// Register registers the command-line flags for the given flag names.
// Unlike Parse, it may be called multiple times.
// Passing zero names install all flags.
// Passing an unknown name triggers a panic.
//
// For example:
//
//	flags.Register("config", "encoding") // Register Config and Encoding.
//	flags.Register() // Register all flags.
func Register(names ...string) {
	RegisterInto(flag.CommandLine, names...)
}

// RegisterInto registers the named flags in fs.
func RegisterInto(fs *flag.FlagSet, names ...string) {
	if len(names) == 0 {
		// Register all flags if no names provided.
		for _, flag := range flags {
			flag.set(fs)
		}
	} else {
		for _, n := range names {
			flag, ok := flags[n]
			if !ok {
				panic(fmt.Sprintf("unknown flag %q", n))
			}
			flag.set(fs)
		}
	}
}

// Args returns a slice of -flag=value strings that will recreate
// the state of the flags, in sorted order. Flags set to their default
// value are elided.
func Args() []string {
	var args []string
	for _, flag := range flags {
		arg := flag.arg()
		if arg == "" {
			continue
		}
		args = append(args, arg)
	}
	sort.Strings(args)
	return args
}

// We define the flags in two steps so clients don't have to write *flags.Flag.
// It also makes the documentation easier to read.

var (
	// Config names the binhistory configuration file to use.
	Config = defaultConfig

	// Encoding names the text encoding of the log files. An empty value
	// defers to the configuration file.
	Encoding = ""

	// HTTPAddr is the network address on which to listen for incoming
	// network connections.
	HTTPAddr = defaultHTTPAddr

	// Log sets the level of logging (implements flag.Value).
	Log logFlag

	// LogFile names a file to which log output is also appended.
	// Empty means log only to standard error.
	LogFile = ""

	// MaxYear is the year hint used to date log entries. Zero defers to
	// the configuration file, and then to each log's modification time.
	MaxYear = 0

	// Pattern is a glob restricting the bins considered when scanning a
	// project. Empty defers to the configuration file.
	Pattern = ""

	// Version causes the program to print its release version and exit.
	// The printed version is only meaningful in released binaries.
	Version = false
)

// flags is a map of flag registration functions keyed by flag name,
// used by Parse to register specific (or all) flags.
var flags = map[string]*flagVar{
	"config": strVar(&Config, "config", Config, "configuration `file`"),
	"encoding": &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.Var(encodingFlag{&Encoding}, "encoding", "text `encoding` of log files: "+strings.Join(charset.Names(), ", "))
		},
		arg: func() string {
			if Encoding == "" {
				return ""
			}
			return "-encoding=" + Encoding
		},
	},
	"http": strVar(&HTTPAddr, "http", HTTPAddr, "`address` for incoming HTTP requests"),
	"log": &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.Var(&Log, "log", "`level` of logging: debug, info, error, disabled")
		},
		arg: func() string { return strArg("log", log.GetLevel(), defaultLog) },
	},
	"logfile": &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.Var(logFileFlag{&LogFile}, "logfile", "also append log output to `file`")
		},
		arg: func() string { return strArg("logfile", LogFile, "") },
	},
	"maxyear": &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.IntVar(&MaxYear, "maxyear", MaxYear, "latest `year` a log entry may fall in (0 means the file's modification year)")
		},
		arg: func() string {
			if MaxYear == 0 {
				return ""
			}
			return "-maxyear=" + strconv.Itoa(MaxYear)
		},
	},
	"pattern": strVar(&Pattern, "pattern", Pattern, "only consider bins whose names match `glob`"),
	"version": &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.BoolVar(&Version, "version", false, "print build version and exit")
		},
		arg: func() string {
			if !Version {
				return ""
			}
			return "-version"
		},
	},
}

// strVar returns a flagVar for the given string flag.
func strVar(value *string, name, _default, usage string) *flagVar {
	return &flagVar{
		set: func(fs *flag.FlagSet) {
			fs.StringVar(value, name, _default, usage)
		},
		arg: func() string {
			return strArg(name, *value, _default)
		},
	}
}

// strArg returns a command-line argument that will recreate the flag,
// or the empty string if the value is the default.
func strArg(name, value, _default string) string {
	if value == _default {
		return ""
	}
	return "-" + name + "=" + value
}

type logFlag string

// String implements flag.Value.
func (f logFlag) String() string {
	if f == "" {
		return defaultLog
	}
	return string(f)
}

// Set implements flag.Value.
func (f *logFlag) Set(level string) error {
	err := log.SetLevel(level)
	if err != nil {
		return err
	}
	*f = logFlag(log.GetLevel())
	return nil
}

// Get implements flag.Getter.
func (logFlag) Get() interface{} {
	return log.GetLevel()
}

type encodingFlag struct {
	s *string
}

// String implements flag.Value.
func (f encodingFlag) String() string {
	if f.s == nil {
		return ""
	}
	return *f.s
}

// Set implements flag.Value. Unknown encodings are rejected.
func (f encodingFlag) Set(name string) error {
	cs, err := charset.Lookup(name)
	if err != nil {
		return err
	}
	*f.s = cs.Name()
	return nil
}

// Get implements flag.Getter.
func (f encodingFlag) Get() interface{} {
	return *f.s
}

type logFileFlag struct {
	s *string
}

// String implements flag.Value.
func (f logFileFlag) String() string {
	if f.s == nil {
		return ""
	}
	return *f.s
}

// Set implements flag.Value. It opens the named file for appending and
// mirrors all log output to it. The flag may be set only once.
func (f logFileFlag) Set(name string) error {
	if *f.s != "" {
		return fmt.Errorf("log file already set to %q", *f.s)
	}
	fd, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	log.Register(NewFileLogger(fd))
	*f.s = name
	return nil
}

// Get implements flag.Getter.
func (f logFileFlag) Get() interface{} {
	return *f.s
}

// fileLogger is a log.ExternalLogger that appends each message as a
// line prefixed by its level.
type fileLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFileLogger returns a log.ExternalLogger that writes each message
// to w. If w has a Sync method, Flush calls it.
func NewFileLogger(w io.Writer) log.ExternalLogger {
	return &fileLogger{w: w}
}

func (l *fileLogger) Log(level log.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(l.w, "%s: %s", level, msg)
}

func (l *fileLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.w.(interface{ Sync() error }); ok {
		s.Sync()
	}
}
