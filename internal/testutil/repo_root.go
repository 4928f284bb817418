package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ChdirRepoRoot changes the working directory to the module root (the
// directory holding go.mod and templates/) for the duration of the test.
func ChdirRepoRoot(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("failed to locate testutil file")
	}
	root, err := moduleRoot(filepath.Dir(file))
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

func moduleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
