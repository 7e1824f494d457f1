// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan finds the bins and logs within a project directory.
//
// Editing systems leave hidden files beside the real ones (resource
// forks named "._Reel 1.avb", for instance); names beginning with a dot,
// and directories so named, are never reported.
package scan // import "binhistory.io/scan"

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"binhistory.io/binlog"
	"binhistory.io/errors"
	"binhistory.io/log"
	"binhistory.io/logfile"
)

// Matcher selects files by base name.
type Matcher struct {
	pattern string
	g       glob.Glob
}

// NewMatcher compiles pattern, a glob in the syntax of
// github.com/gobwas/glob, that is matched against base names.
// The empty pattern matches every name.
func NewMatcher(pattern string) (*Matcher, error) {
	const op errors.Op = "scan.NewMatcher"
	m := &Matcher{pattern: pattern}
	if pattern == "" {
		return m, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("bad pattern %q: %v", pattern, err))
	}
	m.g = g
	return m, nil
}

// Match reports whether the base name of path matches.
func (m *Matcher) Match(path string) bool {
	if m == nil || m.g == nil {
		return true
	}
	return m.g.Match(filepath.Base(path))
}

// String returns the pattern.
func (m *Matcher) String() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

// Hidden reports whether name is a dotfile.
func Hidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}

// Walk calls fn, in lexical order, for every file under root whose
// extension is ext (compared without regard to case) and whose name is
// selected by m. A nil m selects everything. Hidden files and
// directories are skipped. An error from fn stops the walk and is
// returned.
func Walk(root, ext string, m *Matcher, fn func(path string) error) error {
	const op errors.Op = "scan.Walk"
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.E(op, errors.Path(root), errors.NotExist, err)
		}
		return errors.E(op, errors.Path(root), errors.IO, err)
	}
	if !info.IsDir() {
		return errors.E(op, errors.Path(root), errors.Invalid, errors.Str("not a directory"))
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subdirectories are noted and skipped.
			log.Debug.Printf("scan: %v", err)
			if info != nil && info.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && Hidden(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		if !m.Match(path) {
			return nil
		}
		return fn(path)
	})
}

// Bins returns the paths of the bins under root selected by m.
func Bins(root string, m *Matcher) ([]string, error) {
	return collect(root, logfile.BinExtension, m)
}

// Logs returns the paths of the logs under root selected by m.
func Logs(root string, m *Matcher) ([]string, error) {
	return collect(root, logfile.DefaultExtension, m)
}

func collect(root, ext string, m *Matcher) ([]string, error) {
	var paths []string
	err := Walk(root, ext, m, func(path string) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Result is the outcome of reading one log.
type Result struct {
	// Path is the log file.
	Path string
	// Bin is the bin the log belongs to, if the log was found from
	// its bin.
	Bin string
	// Log is the decoded log, or nil if Err is set.
	Log *binlog.Log
	// Err is the error reading or decoding the log.
	Err error
}

// ReadLogs reads every log under root selected by m.
// A log that cannot be read is reported in its Result, not as an error;
// only a failure to walk root is returned as an error.
func ReadLogs(root string, m *Matcher, opts logfile.Options) ([]Result, error) {
	paths, err := Logs(root, m)
	if err != nil {
		return nil, err
	}
	return ReadFiles(paths, opts), nil
}

// ReadFiles reads the named logs.
func ReadFiles(paths []string, opts logfile.Options) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		l, err := logfile.ReadFile(path, opts)
		results = append(results, Result{Path: path, Log: l, Err: err})
	}
	return results
}

// ReadBins finds every bin under root selected by m and reads its log.
// Bins without a log are omitted; logs that fail to decode are reported
// in their Result.
func ReadBins(root string, m *Matcher, opts logfile.Options) ([]Result, error) {
	bins, err := Bins(root, m)
	if err != nil {
		return nil, err
	}
	var results []Result
	for _, bin := range bins {
		path := logfile.PathFromBin(bin)
		l, err := logfile.ReadFile(path, opts)
		if errors.Is(errors.NotExist, err) {
			log.Debug.Printf("scan: %s has no log", bin)
			continue
		}
		results = append(results, Result{Path: path, Bin: bin, Log: l, Err: err})
	}
	return results, nil
}
