// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"testing"
)

func testingUserLookup(who string) (*user.User, error) {
	switch who {
	case "":
		return &user.User{HomeDir: filepath.Join("/home", "editor")}, nil
	case "assist":
		return &user.User{HomeDir: filepath.Join("/home", "assist")}, nil
	}
	return nil, fmt.Errorf("no such user")
}

func TestTilde(t *testing.T) {
	userLookup = testingUserLookup
	defer func() {
		userLookup = user.Lookup
	}()
	tests := []struct{ in, out string }{
		{"", ""},
		{"Bins/Reel 1.log", "Bins/Reel 1.log"},
		{"~", filepath.Join("/home", "editor")},
		{"~/", filepath.Join("/home", "editor")},
		{"~/Feature/Reel 1.log", filepath.Join("/home", "editor", "Feature", "Reel 1.log")},
		{"~assist", filepath.Join("/home", "assist")},
		{"~assist/Feature", filepath.Join("/home", "assist", "Feature")},
		{"~nobody", "~nobody"},
		{"~nobody/Feature", filepath.Join("~nobody", "Feature")},
	}
	for _, test := range tests {
		if out := Tilde(test.in); out != test.out {
			t.Errorf("Tilde(%q) = %q, want %q", test.in, out, test.out)
		}
	}
}

func TestHasGlobChar(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`Reel *.log`, true},
		{`Reel ?.log`, true},
		{`Reel [12].log`, true},
		{`Reel 1.log`, false},
		{`Reel \*.log`, false},
		{`Reel \[1].log`, false},
		{`Reel 1\\`, false},
		{`-`, false},
	}
	for _, test := range tests {
		if got := HasGlobChar(test.in); got != test.want {
			t.Errorf("HasGlobChar(%q) = %t, want %t", test.in, got, test.want)
		}
	}
}

func TestGlobAllLocal(t *testing.T) {
	dir, err := ioutil.TempDir("", "subcmd")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	for _, name := range []string{"Reel 1.log", "Reel 2.log", "Music.log"} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	s, _ := interactive("show")
	got := s.GlobAllLocal([]string{
		filepath.Join(dir, "Reel *.log"),
		filepath.Join(dir, "Missing *.log"),
		"-",
	})
	want := []string{
		filepath.Join(dir, "Reel 1.log"),
		filepath.Join(dir, "Reel 2.log"),
		filepath.Join(dir, "Missing *.log"),
		"-",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
