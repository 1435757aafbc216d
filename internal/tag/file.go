package tag

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"cinetag/internal/fileutil"
)

var (
	// ErrLocked reports a tag file already held open by another writer.
	ErrLocked = errors.New("tag file is locked by another writer")
	// ErrGroupMismatch reports a tag file whose group differs from the one requested.
	ErrGroupMismatch = errors.New("tag group mismatch")
	// ErrClosed reports use of a File after Close.
	ErrClosed = errors.New("tag file closed")
)

// File is a tag opened for writing. It holds an exclusive lock until Close.
type File struct {
	path   string
	lock   *flock.Flock
	tag    *Tag
	exists bool
	closed bool
}

// Open locks the tag at path and loads it. A missing file yields an empty tag
// of the requested group; the file is only created by Commit.
func Open(path, group string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create tag directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", filepath.Base(path), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	t, exists, err := load(path, group)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return &File{path: path, lock: lock, tag: t, exists: exists}, nil
}

// Load reads a tag without locking it. The group is taken from the file.
func Load(path string) (*Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tag: %w", err)
	}
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

func load(path, group string) (*Tag, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(group), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read tag: %w", err)
	}
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if !strings.EqualFold(t.group, group) {
		return nil, false, fmt.Errorf("%w: %s is %q, expected %q", ErrGroupMismatch, path, t.group, group)
	}
	return t, true, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Tag returns the in-memory tag.
func (f *File) Tag() *Tag { return f.tag }

// Existed reports whether the tag was present on disk when opened.
func (f *File) Existed() bool { return f.exists }

// Commit encodes the tag and atomically replaces the file on disk.
func (f *File) Commit() error {
	if f.closed {
		return ErrClosed
	}
	data, err := Marshal(f.tag)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(f.path), err)
	}
	if err := fileutil.WriteFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("commit %s: %w", filepath.Base(f.path), err)
	}
	f.exists = true
	return nil
}

// Close releases the lock. Uncommitted changes are discarded.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock for %s: %w", filepath.Base(f.path), err)
	}
	return nil
}

// Backup copies the on-disk tag to path+".bak". It is a no-op when the tag did
// not exist when opened.
func (f *File) Backup() error {
	if !f.exists {
		return nil
	}
	if err := fileutil.CopyFile(f.path, f.path+".bak"); err != nil {
		return fmt.Errorf("back up %s: %w", filepath.Base(f.path), err)
	}
	return nil
}
