// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	goerrors "errors"
	"io"
	"testing"
)

func TestSeparator(t *testing.T) {
	defer func(prev string) {
		Separator = prev
	}(Separator)
	Separator = ":: "

	path := Path("Reel 1.log")
	err := Str("unexpected timestamp")

	// Single error.
	e1 := E(Op("binlog.Parse"), Parse, err)

	// Nested error.
	e2 := E(Op("binlog.Read"), path, Line(3), Other, e1)

	want := "binlog.Read: Reel 1.log:3: parse error:: binlog.Parse: unexpected timestamp"
	if e2.Error() != want {
		t.Errorf("got %q; want %q", e2, want)
	}
}

func TestLineWithoutPath(t *testing.T) {
	err := E(Op("binlog.Read"), Line(7), Parse, "bad")
	want := "binlog.Read: line 7: parse error: bad"
	if err.Error() != want {
		t.Errorf("got %q; want %q", err, want)
	}
}

func TestDoesNotChangePreviousError(t *testing.T) {
	err := E(FieldLength)
	err2 := E(Op("I will NOT modify err"), err)

	expected := "I will NOT modify err: invalid field length"
	if err2.Error() != expected {
		t.Fatalf("Expected %q, got %q", expected, err2)
	}
	kind := err.(*Error).Kind
	if kind != FieldLength {
		t.Fatalf("Expected kind %v, got %v", FieldLength, kind)
	}
}

func TestNoArgs(t *testing.T) {
	defer func() {
		err := recover()
		if err == nil {
			t.Fatal("E() did not panic")
		}
	}()
	_ = E()
}

func TestUnwrap(t *testing.T) {
	err := E(Op("logfile.ReadFile"), Path("x.log"), IO, io.ErrUnexpectedEOF)
	if !goerrors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("errors.Is(%v, io.ErrUnexpectedEOF) = false; want true", err)
	}
}

type matchTest struct {
	err1, err2 error
	matched    bool
}

const (
	path1 = Path("a.log")
	path2 = Path("b.log")
)

var matchTests = []matchTest{
	// Errors not of type *Error fail outright.
	{nil, nil, false},
	{io.EOF, io.EOF, false},
	{E(io.EOF), io.EOF, false},
	{io.EOF, E(io.EOF), false},
	// Success. We can drop fields from the first argument and still match.
	{E(io.EOF), E(io.EOF), true},
	{E(Op("Op"), Parse, io.EOF, Line(2), path1), E(Op("Op"), Parse, io.EOF, Line(2), path1), true},
	{E(Op("Op"), Parse, io.EOF, path1), E(Op("Op"), Parse, io.EOF, Line(2), path1), true},
	{E(Op("Op"), Parse, io.EOF), E(Op("Op"), Parse, io.EOF, Line(2), path1), true},
	{E(Op("Op"), Parse), E(Op("Op"), Parse, io.EOF, Line(2), path1), true},
	{E(Op("Op")), E(Op("Op"), Parse, io.EOF, Line(2), path1), true},
	// Failure.
	{E(io.EOF), E(io.ErrClosedPipe), false},
	{E(Op("Op1")), E(Op("Op2")), false},
	{E(Parse), E(FieldLength), false},
	{E(Line(1)), E(Line(2)), false},
	{E(path1), E(path2), false},
	{E(Op("Op"), Parse, io.EOF, Line(2), path1), E(Op("Op"), Parse, io.EOF, Line(2), path2), false},
	{E(path1, Str("something")), E(path1), false}, // Test nil error on rhs.
}

func TestMatch(t *testing.T) {
	for _, test := range matchTests {
		matched := Match(test.err1, test.err2)
		if matched != test.matched {
			t.Errorf("Match(%q, %q)=%t; want %t", test.err1, test.err2, matched, test.matched)
		}
	}
}

type kindTest struct {
	err  error
	kind Kind
	want bool
}

var kindTests = []kindTest{
	// Non-Error errors.
	{nil, NotExist, false},
	{Str("not an *Error"), NotExist, false},

	// Basic comparisons.
	{E(NotExist), NotExist, true},
	{E(Parse), NotExist, false},
	{E("no kind"), NotExist, false},
	{E("no kind"), Other, false},

	// Nested *Error values.
	{E("Nesting", E(NotExist)), NotExist, true},
	{E("Nesting", E(Parse)), NotExist, false},
	{E("Nesting", E("no kind")), NotExist, false},
	{E("Nesting", E("no kind")), Other, false},
}

func TestKind(t *testing.T) {
	for _, test := range kindTests {
		got := Is(test.kind, test.err)
		if got != test.want {
			t.Errorf("Is(%q, %q)=%t; want %t", test.kind, test.err, got, test.want)
		}
	}
}
