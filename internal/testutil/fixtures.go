// Package testutil loads test fixtures relative to the repository root.
package testutil

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"testing"
)

// MustFixture reads a fixture from an absolute path or panics.
func MustFixture(absPath string) []byte {
	bytes, err := os.ReadFile(absPath)
	if err != nil {
		panic(fmt.Sprintf("error loading fixture %s: %v", absPath, err))
	}

	return bytes
}

// Fixture reads a fixture given its path relative to the repository root,
// e.g. "native/testdata/submission.xml".
func Fixture(t *testing.T, relPath string) []byte {
	t.Helper()

	p := FixturePath(t, relPath)

	bytes, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("error loading fixture %s: %v", p, err)
	}

	return bytes
}

// FixturePath returns the absolute path of a fixture.
func FixturePath(t *testing.T, relPath string) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("error loading caller")
	}

	return path.Join(path.Dir(filename), "../../", relPath)
}
