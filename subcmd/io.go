// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// I/O helpers.

package subcmd

import (
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"binhistory.io/config"
	"binhistory.io/scan"
)

var userLookup = user.Lookup

var home string // Main user's home directory.

func homeDir(who string) string {
	if who == "" {
		if home == "" {
			var err error
			home, err = config.Homedir()
			if err != nil {
				return "~" // What else can we do?
			}
		}
	}
	u, err := userLookup(who)
	if err != nil {
		return "~" + who // Again, what else can we do?
	}
	return u.HomeDir
}

// Tilde processes a leading tilde, if any, in the local file name.
// If the file name does not begin with a tilde, Tilde returns the argument unchanged.
// This special processing (only) is applied to all local file names passed to
// functions in this package.
// If the target user does not exist, it returns the original string.
func Tilde(file string) string {
	if file == "" || file[0] != '~' {
		return file
	}
	if file == "~" {
		return homeDir("")
	}
	slash := strings.IndexByte(file, '/')
	if slash < 0 {
		return homeDir(file[1:])
	}
	return filepath.Join(homeDir(file[1:slash]), file[slash+1:])
}

// ReadAll reads all contents from a local input file or from stdin if
// the input file name is empty.
func (s *State) ReadAll(fileName string) []byte {
	fileName = Tilde(fileName)
	var input io.Reader = s.Stdin
	if fileName != "" {
		f := s.OpenLocal(fileName)
		defer f.Close()
		input = f
	}

	data, err := ioutil.ReadAll(input)
	if err != nil {
		s.Exit(err)
	}
	return data
}

// OpenLocal opens a file on local disk.
func (s *State) OpenLocal(path string) *os.File {
	f, err := os.Open(Tilde(path))
	if err != nil {
		s.Exit(err)
	}
	return f
}

// CreateLocal creates a file on local disk.
func (s *State) CreateLocal(path string) *os.File {
	f, err := os.Create(Tilde(path))
	if err != nil {
		s.Exit(err)
	}
	return f
}

// ShouldNotExist calls s.Exit if the file already exists.
func (s *State) ShouldNotExist(path string) {
	_, err := os.Stat(Tilde(path))
	if err == nil {
		s.Exitf("%s already exists", path)
	}
	if !os.IsNotExist(err) {
		s.Exit(err)
	}
}

// HasGlobChar reports whether the string contains an unescaped Glob
// metacharacter.
func HasGlobChar(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// GlobLocal glob-expands the argument, which should be a syntactically
// valid Glob pattern (including a plain file name). Hidden files are
// dropped from the expansion.
func (s *State) GlobLocal(pattern string) []string {
	pattern = Tilde(pattern)
	// If it has no metacharacters, leave it alone.
	if !HasGlobChar(pattern) {
		return []string{pattern}
	}
	strs, err := filepath.Glob(pattern)
	if err != nil {
		// Bad pattern, so treat as a literal.
		return []string{pattern}
	}
	visible := strs[:0]
	for _, str := range strs {
		if !scan.Hidden(str) {
			visible = append(visible, str)
		}
	}
	return visible
}

// GlobAllLocal glob-expands each argument and returns the concatenation.
// A pattern that matches nothing is kept as a literal, so the eventual
// complaint names it.
func (s *State) GlobAllLocal(args []string) []string {
	var out []string
	for _, arg := range args {
		strs := s.GlobLocal(arg)
		if len(strs) == 0 {
			strs = []string{arg}
		}
		out = append(out, strs...)
	}
	return out
}

// GlobOneLocal glob-expands the argument, which must result in a
// single local file name.
func (s *State) GlobOneLocal(pattern string) string {
	strs := s.GlobLocal(pattern)
	if len(strs) != 1 {
		s.Exitf("more than one file matches %s", pattern)
	}
	return strs[0]
}
