// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logfile reads and writes bin logs on the local file system.
// It supplies what the log codec leaves to its callers: the text encoding
// of the file, the reference year for decoding (by default the year the
// file was last modified), and the naming convention that puts the log of
// "Reel 1.avb" in "Reel 1.log".
//
// Nothing here locks a bin or its log; callers that share a project with
// other editors must arrange that themselves.
package logfile // import "binhistory.io/logfile"

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"binhistory.io/binlog"
	"binhistory.io/charset"
	"binhistory.io/errors"
	"binhistory.io/log"
)

const (
	// DefaultExtension is the extension of a bin's log file.
	DefaultExtension = ".log"

	// BinExtension is the extension of a bin file.
	BinExtension = ".avb"
)

// Options control how a log file is read and written.
// The zero value reads and writes UTF-8 and takes the reference year
// from the file's modification time.
type Options struct {
	// Charset is the encoding of the file.
	Charset charset.Charset

	// MaxYear, if non-zero, is the reference year for decoding
	// timestamps. See binlog.Parse.
	MaxYear int
}

// PathFromBin returns the name of the log file for the bin at binPath:
// binPath with its extension, if any, replaced by DefaultExtension.
func PathFromBin(binPath string) string {
	return strings.TrimSuffix(binPath, filepath.Ext(binPath)) + DefaultExtension
}

// YearHint returns the reference year for decoding a log file with the
// given metadata: the year it was last modified.
func YearHint(info os.FileInfo) int {
	return info.ModTime().Year()
}

// ReadFile reads the log file at path. A missing file is an error of kind
// NotExist.
func ReadFile(path string, opts Options) (*binlog.Log, error) {
	const op errors.Op = "logfile.ReadFile"
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(op, errors.Path(path), osKind(err), err)
	}
	defer f.Close()

	year := opts.MaxYear
	if year == 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.E(op, errors.Path(path), errors.IO, err)
		}
		year = YearHint(info)
	}
	l, err := binlog.Read(opts.Charset.NewReader(f), year)
	if err != nil {
		return nil, errors.E(op, errors.Path(path), err)
	}
	log.Debug.Printf("logfile: read %d entries from %s (%s, year %d)", l.Stored(), path, opts.Charset.Name(), year)
	return l, nil
}

// ReadBin reads the log of the bin at binPath. The bin itself need not
// exist, but its log must.
func ReadBin(binPath string, opts Options) (*binlog.Log, error) {
	const op errors.Op = "logfile.ReadBin"
	l, err := ReadFile(PathFromBin(binPath), opts)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return l, nil
}

// WriteFile writes l to the file at path, replacing its contents.
// The text is encoded before the file is touched, so a name that cannot
// be represented in the file's encoding leaves the file unchanged.
func WriteFile(path string, l *binlog.Log, opts Options) error {
	const op errors.Op = "logfile.WriteFile"
	data, err := opts.Charset.Encode(l.String())
	if err != nil {
		return errors.E(op, errors.Path(path), err)
	}
	if err := writeFile(path, data); err != nil {
		return errors.E(op, errors.Path(path), osKind(err), err)
	}
	log.Debug.Printf("logfile: wrote %d entries to %s", l.Len(), path)
	return nil
}

// writeFile writes data to a temporary file next to path and renames it
// into place, so readers never see a partially written log.
func writeFile(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := ioutil.TempFile(dir, "."+base+".")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Touch records e in the log file at path, creating the file if it does
// not exist. The log is read, e appended, and the most recent
// binlog.MaxEntries entries written back.
func Touch(path string, e binlog.Entry, opts Options) error {
	const op errors.Op = "logfile.Touch"
	l, err := ReadFile(path, opts)
	switch {
	case errors.Is(errors.NotExist, err):
		l = binlog.New()
	case err != nil:
		return errors.E(op, err)
	}
	if err := WriteFile(path, l.WithAppended(e), opts); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// TouchBin records e in the log of the bin at binPath. Unless
// missingBinOK is set, a bin that does not exist is an error of kind
// NotExist and no log is written.
func TouchBin(binPath string, e binlog.Entry, missingBinOK bool, opts Options) error {
	const op errors.Op = "logfile.TouchBin"
	if !missingBinOK {
		info, err := os.Stat(binPath)
		if err != nil {
			return errors.E(op, errors.Path(binPath), osKind(err), errors.Str("bin not found"))
		}
		if info.IsDir() {
			return errors.E(op, errors.Path(binPath), errors.Invalid, errors.Str("bin is a directory"))
		}
	}
	if err := Touch(PathFromBin(binPath), e, opts); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// Now returns an entry for an access at the current time.
func Now(computer, user string) (binlog.Entry, error) {
	return binlog.NewEntry(time.Now(), computer, user)
}

// Verify reports whether re-encoding the log file at path reproduces its
// contents exactly.
func Verify(path string, opts Options) (bool, error) {
	const op errors.Op = "logfile.Verify"
	l, err := ReadFile(path, opts)
	if err != nil {
		return false, errors.E(op, err)
	}
	orig, err := ioutil.ReadFile(path)
	if err != nil {
		return false, errors.E(op, errors.Path(path), osKind(err), err)
	}
	data, err := opts.Charset.Encode(l.String())
	if err != nil {
		return false, errors.E(op, errors.Path(path), err)
	}
	return bytes.Equal(orig, data), nil
}

// osKind classifies an error returned by the os package.
func osKind(err error) errors.Kind {
	if os.IsNotExist(err) {
		return errors.NotExist
	}
	return errors.IO
}
