package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MkdirAll creates dir or fails the test.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTagStub creates a placeholder tag file at rel (slash-separated,
// extension included) under root, for reference resolution.
func WriteTagStub(t testing.TB, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	WriteFile(t, path, []byte{0x42})
	return path
}

// WriteSnapshot writes snapshot YAML into the test's base directory and
// returns its path.
func WriteSnapshot(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteFile(t, path, []byte(body))
	return path
}
