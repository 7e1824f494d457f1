// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows
// +build windows

package flags

import (
	"os"
	"path/filepath"
)

// defaultConfig names the default binhistory configuration file to use.
var defaultConfig = filepath.Join(os.Getenv("USERPROFILE"), "binhistory", "config")
