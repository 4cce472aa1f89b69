// Package testkit provides testing helpers shared across packages
package testkit

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Tolerance is the default float slack for ApproxEqual
const Tolerance = 1e-6

// Swap replaces a package level seam for the duration of t
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle, dumping haystack to a
// temp file on failure so long log output stays readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		tmpfile := filepath.Join(t.TempDir(), "haystack.txt")
		_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
	}
}

// ApproxEqual fails when got and want differ by more than tol, tol <= 0 uses Tolerance
func ApproxEqual(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if tol <= 0 {
		tol = Tolerance
	}
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Fatalf("%s = %.9g, want %.9g (tol %g)", label, got, want, tol)
	}
}

// ApproxSlice compares two float slices element-wise
func ApproxSlice(t *testing.T, label string, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: len %d, want %d (%v vs %v)", label, len(got), len(want), got, want)
	}
	for i := range want {
		ApproxEqual(t, label+"["+strconv.Itoa(i)+"]", got[i], want[i], tol)
	}
}

// Month returns the UTC first of the month, handy for bucket fixtures
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Day returns a UTC midnight
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
