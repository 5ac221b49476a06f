// Package testkit holds the helpers tests share: seam swapping and panic and output checks
package testkit

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// serial is held by tests that change package level seams
var serial sync.Mutex

// Serial keeps other Serial tests out until t finishes
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// Swap sets *target to v until t finishes; pair it with Serial
func Swap[T any](t *testing.T, target *T, v T) {
	t.Helper()
	old := *target
	*target = v
	t.Cleanup(func() { *target = old })
}

// MustPanic fails t unless fn panics and returns the panic rendered with %v
func MustPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		msg = fmt.Sprint(r)
	}()
	fn()
	return ""
}

// MustNotPanic fails t when fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails t unless out contains want; the full output goes to the test log
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Logf("output:\n%s", out)
		t.Fatalf("output does not contain %q", want)
	}
}
