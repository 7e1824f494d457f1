// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	const (
		msg1 = "reading Reel 1.log"
		msg2 = "10 entries"
		msg3 = "bad line 4"
	)
	setMockLogger(fmt.Sprintf("%sskipping: %s", msg2, msg3), false)

	level := "info"
	SetLevel(level)
	if GetLevel() != level {
		t.Fatalf("Expected %q, got %q", level, GetLevel())
	}
	Debug.Println(msg1)                // not logged
	Info.Print(msg2)                   // logged
	Error.Printf("skipping: %s", msg3) // logged

	globals().defaultLogger.(*mockLogger).Verify(t)
}

func TestDisable(t *testing.T) {
	setMockLogger("scanning project", false)
	SetLevel("debug")
	Debug.Printf("scanning project")
	SetLevel("disabled")
	Error.Printf("Important stuff you'll miss!")
	globals().defaultLogger.(*mockLogger).Verify(t)
}

func TestFatal(t *testing.T) {
	const msg = "will abort anyway"

	setMockLogger(msg, true)

	SetLevel("error")
	Info.Fatal(msg)

	globals().defaultLogger.(*mockLogger).Verify(t)
}

func TestAt(t *testing.T) {
	SetLevel("info")

	if At("debug") {
		t.Errorf("Debug is expected to be disabled when level is info")
	}
	if !At("error") {
		t.Errorf("Error is expected to be enabled when level is info")
	}
	if At("loud") {
		t.Errorf("unknown level should never be enabled")
	}
}

func TestBadLevel(t *testing.T) {
	SetLevel("info")
	if err := SetLevel("verbose"); err == nil {
		t.Fatal("SetLevel(verbose) succeeded; want error")
	}
	if got := GetLevel(); got != "info" {
		t.Errorf("level changed to %q after bad SetLevel", got)
	}
}

func TestExternalLogging(t *testing.T) {
	const (
		msg           = "touched Reel 1.log"
		fatalExpected = true
	)
	mockExternal := &mockLogger{
		expected: msg,
	}
	Register(mockExternal)
	defer func() { state.externalLogger = nil }()
	setMockLogger(msg, !fatalExpected)

	SetLevel("info")
	Print(msg)

	mockExternal.Verify(t)
	globals().defaultLogger.(*mockLogger).Verify(t)
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	SetLevel("info")
	Printf("read %d entries", 10)
	if !strings.Contains(buf.String(), "read 10 entries") {
		t.Errorf("output %q does not contain message", buf.String())
	}

	SetOutput(nil) // disable local logging.
	Print("not printed")
	if strings.Contains(buf.String(), "not printed") {
		t.Errorf("disabled logger still wrote %q", buf.String())
	}
}

func setMockLogger(expected string, fatalExpected bool) {
	state.defaultLogger = &mockLogger{
		expected:      expected,
		fatalExpected: fatalExpected,
	}
}

type mockLogger struct {
	fatal         bool
	logged        string
	expected      string
	fatalExpected bool
}

func (ml *mockLogger) Printf(format string, v ...interface{}) {
	ml.logged += fmt.Sprintf(format, v...)
}

func (ml *mockLogger) Print(v ...interface{}) {
	ml.logged += fmt.Sprint(v...)
}

func (ml *mockLogger) Println(v ...interface{}) {
	ml.logged += fmt.Sprintln(v...)
}

func (ml *mockLogger) Fatal(v ...interface{}) {
	ml.fatal = true
	ml.Print(v...)
}

func (ml *mockLogger) Fatalf(format string, v ...interface{}) {
	ml.fatal = true
	ml.Printf(format, v...)
}

func (ml *mockLogger) Verify(t *testing.T) {
	if ml.logged != ml.expected {
		t.Errorf("Expected %q, got %q", ml.expected, ml.logged)
	}
	if ml.fatal != ml.fatalExpected {
		t.Errorf("Expected fatal %v, got %v", ml.fatalExpected, ml.fatal)
	}
}

// mockLogger is also an ExternalLogger.
func (ml *mockLogger) Flush() {
}

func (ml *mockLogger) Log(l Level, s string) {
	ml.Print(s)
}
