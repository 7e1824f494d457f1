// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors defines the error handling used by all binhistory software.
package errors // import "binhistory.io/errors"

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"

	"binhistory.io/log"
)

// Error is the type that implements the error interface.
// It contains a number of fields, each of different type.
// An Error value may leave some values unset.
type Error struct {
	// Path is the name of the log or bin file being accessed.
	Path Path
	// Line is the 1-based line number within Path, if known.
	Line Line
	// Op is the operation being performed, usually the name of the
	// function being invoked (binlog.Parse, logfile.Touch, etc.).
	Op Op
	// Kind is the class of error, such as a parse failure,
	// or "Other" if its class is unknown or irrelevant.
	Kind Kind
	// The underlying error that triggered this one, if any.
	Err error
}

var (
	_       error = (*Error)(nil)
	zeroErr Error
)

// Op describes an operation, usually as the package and function name,
// such as "binlog.Parse".
type Op string

// Path is the local file name of a log or bin.
type Path string

// Line is a 1-based line number within a log file.
type Line int

// Separator is the string used to separate nested errors. By
// default, to make errors easier on the eye, nested errors are
// indented on a new line. A command may instead choose to keep each
// error on a single line by modifying the separator string, perhaps
// to ":: ".
var Separator = ":\n\t"

// Kind defines the kind of error this is, so callers can tell a
// malformed file apart from a well-formed line holding a bad field.
type Kind uint8

// Kinds of errors.
const (
	Other        Kind = iota // Unclassified error. This value is not printed in the error message.
	Parse                    // Text does not conform to the fixed-width log grammar.
	FieldLength              // Computer or user name is empty or too long.
	FieldContent             // Computer or user name holds non-printable characters.
	Type                     // Value is not a sequence of log entries.
	Invalid                  // Invalid argument or configuration value.
	IO                       // External I/O error.
	NotExist                 // Item does not exist.
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Parse:
		return "parse error"
	case FieldLength:
		return "invalid field length"
	case FieldContent:
		return "invalid field content"
	case Type:
		return "invalid type"
	case Invalid:
		return "invalid argument"
	case IO:
		return "I/O error"
	case NotExist:
		return "item does not exist"
	}
	return "unknown error kind"
}

// E builds an error value from its arguments.
// There must be at least one argument or E panics.
// The type of each argument determines its meaning.
// If more than one argument of a given type is presented,
// only the last one is recorded.
//
// The types are:
//
//	errors.Op
//		The operation being performed, usually the function
//		being invoked (binlog.Parse, logfile.Touch, etc.).
//	errors.Path
//		The name of the log or bin file being accessed.
//	errors.Line
//		The 1-based line within that file.
//	string
//		Treated as an error message and assigned to the
//		Err field after a call to errors.Str.
//	errors.Kind
//		The class of error, such as a parse failure.
//	error
//		The underlying error that triggered this one.
//
// If the error is printed, only those items that have been
// set to non-zero values will appear in the result.
//
// If Kind is not specified or Other, we set it to the Kind of
// the underlying error.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errors.E with no arguments")
	}
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Path:
			e.Path = arg
		case Line:
			e.Line = arg
		case string:
			e.Err = Str(arg)
		case Kind:
			e.Kind = arg
		case *Error:
			// Make a copy
			copy := *arg
			e.Err = &copy
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("errors.E: bad call from %s:%d: %v", file, line, args)
			return Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// The previous error was also one of ours. Suppress duplications
	// so the message won't contain the same kind, file name or line
	// twice.
	if prev.Path == e.Path {
		prev.Path = ""
		if prev.Line == e.Line {
			prev.Line = 0
		}
	}
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}
	// If this error has Kind unset or Other, pull up the inner one.
	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}
	return e
}

// pad appends str to the buffer if the buffer already has some data.
func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

func (e *Error) isZero() bool {
	return e.Path == "" && e.Line == 0 && e.Op == "" && e.Kind == 0 && e.Err == nil
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}
	if e.Path != "" {
		pad(b, ": ")
		b.WriteString(string(e.Path))
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(e.Line)))
		}
	} else if e.Line > 0 {
		pad(b, ": ")
		b.WriteString("line ")
		b.WriteString(strconv.Itoa(int(e.Line)))
	}
	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		// Indent on new line if we are cascading non-empty errors.
		if prevErr, ok := e.Err.(*Error); ok {
			if !prevErr.isZero() {
				pad(b, Separator)
				b.WriteString(e.Err.Error())
			}
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

// Unwrap returns the underlying error, so the standard library's
// errors.Is and errors.As see through an *Error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Recreate the errors.New functionality of the standard Go errors package
// so we can create simple text errors when needed.

// Str returns an error that formats as the given text. It is intended to
// be used as the error-typed argument to the E function.
func Str(text string) error {
	return &errorString{text}
}

// errorString is a trivial implementation of error.
type errorString struct {
	s string
}

func (e *errorString) Error() string {
	return e.s
}

// Errorf is equivalent to fmt.Errorf, but allows clients to import only this
// package for all error handling.
func Errorf(format string, args ...interface{}) error {
	return &errorString{fmt.Sprintf(format, args...)}
}

// Match compares its two error arguments. It can be used to check
// for expected errors in tests. Both arguments must have underlying
// type *Error or Match will return false. Otherwise it returns true
// iff every non-zero element of the first error is equal to the
// corresponding element of the second.
// If the Err field is a *Error, Match recurs on that field;
// otherwise it compares the strings returned by the Error methods.
// Elements that are in the second argument but not present in
// the first are ignored.
//
// For example,
//
//	Match(errors.E(errors.Op("binlog.Parse"), errors.Parse), err)
//
// tests whether err is an Error with Kind=Parse and Op=binlog.Parse.
func Match(err1, err2 error) bool {
	e1, ok := err1.(*Error)
	if !ok {
		return false
	}
	e2, ok := err2.(*Error)
	if !ok {
		return false
	}
	if e1.Path != "" && e2.Path != e1.Path {
		return false
	}
	if e1.Line != 0 && e2.Line != e1.Line {
		return false
	}
	if e1.Op != "" && e2.Op != e1.Op {
		return false
	}
	if e1.Kind != Other && e2.Kind != e1.Kind {
		return false
	}
	if e1.Err != nil {
		if _, ok := e1.Err.(*Error); ok {
			return Match(e1.Err, e2.Err)
		}
		if e2.Err == nil || e2.Err.Error() != e1.Err.Error() {
			return false
		}
	}
	return true
}

// Is reports whether err is an *Error of the given Kind.
// If err is nil then Is returns false.
func Is(kind Kind, err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if e.Kind != Other {
		return e.Kind == kind
	}
	if e.Err != nil {
		return Is(kind, e.Err)
	}
	return false
}
