package tag

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnresolvedReference reports a reference path with no matching tag under
// the tags root.
var ErrUnresolvedReference = errors.New("tag reference does not resolve")

// Index resolves reference paths against a tags root. The directory is
// scanned once, on first use; an Index belongs to one export pass.
type Index struct {
	root string

	once    sync.Once
	err     error
	entries map[string][]string // lowercase path without extension -> groups
}

// NewIndex returns an index over root.
func NewIndex(root string) *Index {
	return &Index{root: root}
}

// Root returns the tags root.
func (x *Index) Root() string { return x.root }

func (x *Index) scan() error {
	x.once.Do(func() {
		x.entries = make(map[string][]string)
		x.err = filepath.WalkDir(x.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(x.root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			ext := path.Ext(rel)
			if ext == "" || ext == ".lock" || ext == ".bak" || ext == ".tmp" {
				return nil
			}
			key := strings.ToLower(strings.TrimSuffix(rel, ext))
			x.entries[key] = append(x.entries[key], ext[1:])
			return nil
		})
		if x.err != nil {
			x.err = fmt.Errorf("%w: scan tags root %s: %w", ErrUnresolvedReference, x.root, x.err)
		}
	})
	return x.err
}

// Resolve maps a reference path to a Reference. The path may be relative to
// the tags root or absolute inside it, with or without its extension. When it
// has no extension, groups lists the acceptable extensions in preference order;
// with no groups, the path must name exactly one tag. An empty path resolves
// to the zero Reference.
func (x *Index) Resolve(ref string, groups ...string) (Reference, error) {
	clean := x.normalize(ref)
	if clean == "" {
		return Reference{}, nil
	}
	if err := x.scan(); err != nil {
		return Reference{}, err
	}

	if ext := path.Ext(clean); ext != "" {
		base := strings.TrimSuffix(clean, ext)
		for _, g := range x.entries[strings.ToLower(base)] {
			if strings.EqualFold(g, ext[1:]) && accepts(groups, g) {
				return Reference{Group: g, Path: base}, nil
			}
		}
	}

	found := x.entries[strings.ToLower(clean)]
	for _, want := range groups {
		for _, g := range found {
			if strings.EqualFold(g, want) {
				return Reference{Group: g, Path: clean}, nil
			}
		}
	}
	if len(groups) == 0 && len(found) == 1 {
		return Reference{Group: found[0], Path: clean}, nil
	}
	if len(groups) == 0 && len(found) > 1 {
		sorted := append([]string(nil), found...)
		sort.Strings(sorted)
		return Reference{}, fmt.Errorf("%w: %q is ambiguous (%s)", ErrUnresolvedReference, ref, strings.Join(sorted, ", "))
	}
	return Reference{}, fmt.Errorf("%w: %q under %s", ErrUnresolvedReference, ref, x.root)
}

func (x *Index) normalize(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if filepath.IsAbs(ref) {
		if rel, err := filepath.Rel(x.root, ref); err == nil && !strings.HasPrefix(rel, "..") {
			ref = rel
		}
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	return strings.Trim(path.Clean("/"+ref), "/")
}

func accepts(groups []string, group string) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}
