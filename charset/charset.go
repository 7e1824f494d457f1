// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package charset names the text encodings in which bin logs are found.
// Older editing systems wrote logs in a single-byte encoding; the log
// codec itself works on decoded text, so files must be converted on the
// way in and out.
package charset // import "binhistory.io/charset"

import (
	"io"
	"io/ioutil"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"binhistory.io/errors"
)

// Default is the name of the encoding used when none is given.
const Default = "utf-8"

var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"macintosh":    charmap.Macintosh,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
}

var aliases = map[string]string{
	"utf8":     "utf-8",
	"mac":      "macintosh",
	"macroman": "macintosh",
	"cp1252":   "windows-1252",
	"latin1":   "iso-8859-1",
}

// Charset is a named encoding.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// Lookup returns the Charset with the given name, ignoring case.
// The empty name selects Default.
func Lookup(name string) (Charset, error) {
	const op errors.Op = "charset.Lookup"
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	if a, ok := aliases[key]; ok {
		key = a
	}
	enc, ok := encodings[key]
	if !ok {
		return Charset{}, errors.E(op, errors.Invalid, errors.Errorf("unknown encoding %q; known encodings are %s", name, strings.Join(Names(), ", ")))
	}
	return Charset{name: key, enc: enc}, nil
}

// Names returns the canonical names of the known encodings, sorted.
func Names() []string {
	var names []string
	for n := range encodings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the canonical name of c.
func (c Charset) Name() string {
	if c.enc == nil {
		return Default
	}
	return c.name
}

func (c Charset) encoding() encoding.Encoding {
	if c.enc == nil {
		return unicode.UTF8
	}
	return c.enc
}

// NewReader returns a reader that decodes r from c into UTF-8.
func (c Charset) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, c.encoding().NewDecoder())
}

// NewWriter returns a writer that encodes UTF-8 text written to it into c
// before writing to w. The caller must Close it to flush pending output.
func (c Charset) NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, c.encoding().NewEncoder())
}

// Decode converts b from c into a UTF-8 string.
func (c Charset) Decode(b []byte) (string, error) {
	const op errors.Op = "charset.Decode"
	out, err := ioutil.ReadAll(c.NewReader(strings.NewReader(string(b))))
	if err != nil {
		return "", errors.E(op, errors.Invalid, err)
	}
	return string(out), nil
}

// Encode converts s into c. Characters that c cannot represent are an
// error of kind Invalid.
func (c Charset) Encode(s string) ([]byte, error) {
	const op errors.Op = "charset.Encode"
	out, err := c.encoding().NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("cannot encode text as %s: %v", c.Name(), err))
	}
	return out, nil
}
