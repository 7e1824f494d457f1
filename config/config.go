// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config creates a binhistory configuration from various sources.
package config // import "binhistory.io/config"

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	osuser "os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	yaml "gopkg.in/yaml.v2"

	"binhistory.io/binlog"
	"binhistory.io/charset"
	"binhistory.io/errors"
	"binhistory.io/log"
)

// Config holds the settings shared by the binhistory commands.
// A Config is immutable; the Set functions return modified copies.
type Config struct {
	userName string
	computer string
	charset  charset.Charset
	maxYear  int
	pattern  string
	httpAddr string
}

// Known keys. All others are treated as errors.
const (
	username = "username"
	computer = "computer"
	encoding = "encoding"
	maxyear  = "maxyear"
	pattern  = "pattern"
	httpaddr = "httpaddr"
)

// EnvPrefix is prepended to a configuration key to form the name of
// the environment variable that overrides it, as in "binhistoryusername".
const EnvPrefix = "binhistory"

// DefaultHTTPAddr is the address served by "binhistory serve" when the
// configuration does not name one.
const DefaultHTTPAddr = "localhost:8080"

// New returns a config with all fields set as defaults.
func New() *Config {
	return &Config{
		charset:  charset.Charset{},
		httpAddr: DefaultHTTPAddr,
	}
}

// UserName returns the configured user name, which may be empty.
func (c *Config) UserName() string { return c.userName }

// Computer returns the configured computer name, which may be empty.
func (c *Config) Computer() string { return c.computer }

// Charset returns the encoding of the log files.
func (c *Config) Charset() charset.Charset { return c.charset }

// MaxYear returns the configured year hint. Zero means the hint is
// taken from each log's modification time.
func (c *Config) MaxYear() int { return c.maxYear }

// Pattern returns the glob used to select bins when scanning a project.
// Empty means every bin.
func (c *Config) Pattern() string { return c.pattern }

// HTTPAddr returns the address on which the report server listens.
func (c *Config) HTTPAddr() string { return c.httpAddr }

// SetUserName returns a copy of cfg with the user name set to u.
func SetUserName(cfg *Config, u string) *Config {
	c := *cfg
	c.userName = u
	return &c
}

// SetComputer returns a copy of cfg with the computer name set to name.
func SetComputer(cfg *Config, name string) *Config {
	c := *cfg
	c.computer = name
	return &c
}

// SetCharset returns a copy of cfg using the given encoding.
func SetCharset(cfg *Config, cs charset.Charset) *Config {
	c := *cfg
	c.charset = cs
	return &c
}

// SetMaxYear returns a copy of cfg with the year hint set to year.
func SetMaxYear(cfg *Config, year int) *Config {
	c := *cfg
	c.maxYear = year
	return &c
}

// SetPattern returns a copy of cfg with the bin glob set to p.
func SetPattern(cfg *Config, p string) *Config {
	c := *cfg
	c.pattern = p
	return &c
}

// SetHTTPAddr returns a copy of cfg with the server address set to addr.
func SetHTTPAddr(cfg *Config, addr string) *Config {
	c := *cfg
	c.httpAddr = addr
	return &c
}

// FromFile initializes a config using the given file. If the file cannot
// be opened but the name can be found in $HOME/binhistory, that file is used.
func FromFile(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil && !filepath.IsAbs(name) && os.IsNotExist(err) {
		home, errHome := Homedir()
		if errHome == nil {
			f, err = os.Open(filepath.Join(home, "binhistory", name))
		}
	}
	if err != nil {
		const op errors.Op = "config.FromFile"
		if os.IsNotExist(err) {
			return nil, errors.E(op, errors.Path(name), errors.NotExist, err)
		}
		return nil, errors.E(op, errors.Path(name), errors.IO, err)
	}
	defer f.Close()
	return InitConfig(f)
}

// InitConfig returns a config generated from a configuration file and/or
// environment variables.
//
// A configuration file is YAML of the format
//
//	# lines that begin with a hash are ignored
//	key: value
//
// where key may be one of username, computer, encoding, maxyear,
// pattern, or httpaddr.
//
// The default configuration file location is $HOME/binhistory/config.
// If passed a non-nil io.Reader, that is used instead of the default file.
// A missing default file is not an error; the defaults are used.
//
// Environment variables named "binhistorykey", where "key" is a recognized
// configuration key, override configuration values in the config file.
// The upper-case form, as in BINHISTORYUSERNAME, is accepted too.
func InitConfig(r io.Reader) (*Config, error) {
	const op errors.Op = "config.InitConfig"
	vals := map[string]string{
		username: "",
		computer: "",
		encoding: charset.Default,
		maxyear:  "0",
		pattern:  "",
		httpaddr: DefaultHTTPAddr,
	}

	// If the provided reader is nil, try $HOME/binhistory/config.
	if r == nil {
		home, err := Homedir()
		if err != nil {
			return nil, errors.E(op, err)
		}
		name := filepath.Join(home, "binhistory", "config")
		f, err := os.Open(name)
		switch {
		case os.IsNotExist(err):
			log.Debug.Printf("config: no file %s; using defaults", name)
		case err != nil:
			return nil, errors.E(op, errors.Path(name), errors.IO, err)
		default:
			r = f
			defer f.Close()
		}
	}

	if r != nil {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, errors.E(op, errors.IO, err)
		}
		if err := valsFromYAML(vals, data); err != nil {
			return nil, errors.E(op, err)
		}
	}
	valsFromEnv(vals)

	cfg := New()

	for _, k := range []string{username, computer} {
		v := strings.TrimSpace(vals[k])
		if v == "" {
			continue
		}
		if err := checkName(k, v); err != nil {
			return nil, errors.E(op, err)
		}
		vals[k] = v
	}
	cfg = SetUserName(cfg, vals[username])
	cfg = SetComputer(cfg, vals[computer])

	cs, err := charset.Lookup(vals[encoding])
	if err != nil {
		return nil, errors.E(op, err)
	}
	cfg = SetCharset(cfg, cs)

	year, err := strconv.Atoi(strings.TrimSpace(vals[maxyear]))
	if err != nil || year < 0 {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("bad maxyear %q", vals[maxyear]))
	}
	cfg = SetMaxYear(cfg, year)

	cfg = SetPattern(cfg, vals[pattern])
	if vals[httpaddr] != "" {
		cfg = SetHTTPAddr(cfg, vals[httpaddr])
	}
	return cfg, nil
}

// checkName reports whether v can be stored in a log field.
func checkName(key, v string) error {
	var err error
	if key == computer {
		_, err = binlog.NewEntry(time.Time{}, v, "x")
	} else {
		_, err = binlog.NewEntry(time.Time{}, "x", v)
	}
	if err != nil {
		return errors.E(errors.Invalid, err)
	}
	return nil
}

// valsFromYAML parses YAML from the given map and puts the values
// into the provided map. Unrecognized keys generate an error.
func valsFromYAML(vals map[string]string, data []byte) error {
	newVals := map[string]interface{}{}
	if err := yaml.Unmarshal(data, newVals); err != nil {
		return errors.E(errors.Invalid, errors.Errorf("parsing YAML file: %v", err))
	}
	for k, v := range newVals {
		if _, ok := vals[k]; !ok {
			return errors.E(errors.Invalid, errors.Errorf("unrecognized key %q", k))
		}
		s, err := asString(v)
		if err != nil {
			return errors.E(errors.Invalid, errors.Errorf("%q: %v", k, err))
		}
		vals[k] = s
	}
	return nil
}

// valsFromEnv overrides vals with any binhistory environment variables.
func valsFromEnv(vals map[string]string) {
	for k := range vals {
		name := EnvPrefix + k
		v, ok := os.LookupEnv(name)
		if !ok {
			name = strings.ToUpper(name)
			v, ok = os.LookupEnv(name)
		}
		if ok {
			log.Debug.Printf("config: %s overridden by $%s", k, name)
			vals[k] = v
		}
	}
}

// asString tries to convert a value back into its original string. This will not
// always be possible but should be for all our expected use cases.
func asString(v interface{}) (string, error) {
	switch vc := v.(type) {
	case nil:
		return "", nil
	case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", vc), nil
	case string:
		return vc, nil
	}
	return "", errors.Errorf("unrecognized value %T", v)
}

// DefaultUserName returns the name of the logged-in OS user, suitable
// for a log entry, or the empty string if it cannot be determined.
func DefaultUserName() string {
	u, err := osuser.Current()
	if u == nil {
		log.Debug.Printf("config: lookup of current user failed: %v", err)
		return ""
	}
	return fieldName(u.Username)
}

// DefaultComputer returns the short host name, suitable for a log entry,
// or the empty string if it cannot be determined.
func DefaultComputer() string {
	h, err := os.Hostname()
	if err != nil {
		log.Debug.Printf("config: hostname: %v", err)
		return ""
	}
	if i := strings.IndexByte(h, '.'); i > 0 {
		h = h[:i]
	}
	return fieldName(h)
}

// fieldName strips any domain qualifier and anything that cannot be
// stored in a log field, and truncates the result to the field width.
func fieldName(s string) string {
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if r := []rune(s); len(r) > binlog.MaxFieldLength {
		s = string(r[:binlog.MaxFieldLength])
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Homedir returns the home directory of the OS' logged-in user.
func Homedir() (string, error) {
	u, err := osuser.Current()
	// user.Current may return an error, but we should only handle it if it
	// returns a nil user. This is because os/user is wonky without cgo,
	// but it should work well enough for our purposes.
	if u == nil {
		e := errors.Str("lookup of current user failed")
		if err != nil {
			e = errors.Errorf("%v: %v", e, err)
		}
		return "", e
	}
	h := u.HomeDir
	if h == "" {
		return "", errors.E(errors.NotExist, errors.Str("user home directory not found"))
	}
	fi, err := os.Stat(h)
	if err != nil {
		return "", errors.E(errors.Path(h), errors.IO, err)
	}
	if !fi.IsDir() {
		return "", errors.E(errors.Path(h), errors.Invalid, errors.Str("home is not a directory"))
	}
	return h, nil
}
