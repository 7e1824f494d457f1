// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The version package is used by the release process to add an
// informative version string to the binhistory command.
// Release builds set the variables with the linker, as in
//
//	go build -ldflags "-X binhistory.io/version.GitSHA=$(git rev-parse HEAD)
//		-X binhistory.io/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version // import "binhistory.io/version"

import (
	"fmt"
	"time"
)

// These strings are overwritten by the linker during the release process.
// BuildTime is in RFC 3339 format.
var (
	BuildTime = ""
	GitSHA    = ""
)

// Version returns a newline-terminated string describing the current
// version of the build.
func Version() string {
	if GitSHA == "" {
		return "devel\n"
	}
	str := ""
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		str += fmt.Sprintf("Build time: %s\n", t.In(time.UTC).Format(time.Stamp+" 2006 UTC"))
	}
	str += fmt.Sprintf("Git hash:   %s\n", GitSHA)
	return str
}
