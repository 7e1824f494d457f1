// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flags

import (
	"bytes"
	"flag"
	"io/ioutil"
	"strings"
	"testing"

	"binhistory.io/log"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	return fs
}

func TestParseClient(t *testing.T) {
	defer func() {
		Encoding = ""
		MaxYear = 0
		log.SetLevel("info")
	}()
	fs := newFlagSet()
	ParseArgsInto(fs, []string{"-encoding=MacRoman", "-maxyear=2010", "-log=debug", "show", "x.log"}, Client)
	if Encoding != "macintosh" {
		t.Errorf("Encoding = %q, want macintosh", Encoding)
	}
	if MaxYear != 2010 {
		t.Errorf("MaxYear = %d, want 2010", MaxYear)
	}
	if got := log.GetLevel(); got != "debug" {
		t.Errorf("log level = %q, want debug", got)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "show" {
		t.Errorf("Args = %q", got)
	}
	if fs.Lookup("http") != nil {
		t.Error("client flag set has -http")
	}
}

func TestBadEncoding(t *testing.T) {
	fs := newFlagSet()
	RegisterInto(fs, "encoding")
	if err := fs.Parse([]string{"-encoding=ebcdic"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestBadLogLevel(t *testing.T) {
	defer log.SetLevel("info")
	fs := newFlagSet()
	RegisterInto(fs, "log")
	if err := fs.Parse([]string{"-log=chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestUnknownFlagPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RegisterInto with unknown name did not panic")
		}
	}()
	RegisterInto(newFlagSet(), "nonesuch")
}

func TestArgs(t *testing.T) {
	defer func() {
		HTTPAddr = defaultHTTPAddr
		Pattern = ""
	}()
	HTTPAddr = ":9000"
	Pattern = "Reel*"
	args := strings.Join(Args(), " ")
	for _, want := range []string{"-http=:9000", "-pattern=Reel*"} {
		if !strings.Contains(args, want) {
			t.Errorf("Args() = %q, missing %q", args, want)
		}
	}
	if strings.Contains(args, "-config") {
		t.Errorf("Args() = %q, includes default config", args)
	}
}

func TestFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Log(log.InfoLevel, "touched Reel 1.log")
	l.Log(log.ErrorLevel, "bad line\n")
	l.Flush()
	const want = "info: touched Reel 1.log\nerror: bad line\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
