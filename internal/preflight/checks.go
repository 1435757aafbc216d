package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"cinetag/internal/history"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

var errStopWalk = errors.New("stop walk")

// tagScanLimit bounds how many files CheckTagsRoot counts.
const tagScanLimit = 100000

// CheckTagsRoot verifies the tags root is accessible and reports how many tag
// files it holds. An empty root passes; references simply will not resolve.
func CheckTagsRoot(ctx context.Context, path string) Result {
	const name = "Tags root"

	access := CheckDirectoryAccess(name, path)
	if !access.Passed {
		return access
	}

	count := 0
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(p) {
		case "", ".lock", ".bak", ".tmp", ".qua":
			return nil
		}
		count++
		if count >= tagScanLimit {
			return errStopWalk
		}
		return nil
	})
	switch {
	case errors.Is(err, errStopWalk):
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d+ tags)", path, count)}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: scan: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d tags)", path, count)}
}

// CheckHistory verifies the history database opens with the expected schema.
func CheckHistory(path string) Result {
	const name = "Export history"

	store, err := history.Open(path)
	if err != nil {
		if errors.Is(err, history.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: open: %v)", path, err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", path)}
}
