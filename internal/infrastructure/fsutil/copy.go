// Package fsutil holds the directory primitives used to build and restore
// snapshot archives.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDestinationInsideSource is returned when a copy would walk into its
// own output
var ErrDestinationInsideSource = errors.New("destination is inside the source directory")

// CopyDirectory mirrors every subdirectory of from under to, creating only
// the missing ones, then copies every file, overwriting files of the same
// name. Nothing already under to is removed. to must not be from or lie
// under it.
func CopyDirectory(from, to string) error {
	if Within(from, to) {
		return fmt.Errorf("%w: %s is under %s", ErrDestinationInsideSource, to, from)
	}
	info, err := os.Stat(from)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", from)
	}
	if err := os.MkdirAll(to, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	// Directories first, files second.
	err = filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == from {
			return nil
		}
		target, err := destination(from, to, path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		target, err := destination(from, to, path)
		if err != nil {
			return err
		}
		return CopyFile(path, target)
	})
}

func destination(from, to, path string) (string, error) {
	rel, err := filepath.Rel(from, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Join(to, rel), nil
}

// Within reports whether path is dir itself or lies under it. Both are made
// absolute and cleaned first; symbolic links are not resolved.
func Within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// CopyFile copies a single file, replacing dst when it exists
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// errFound stops the walk at the first file
var errFound = errors.New("found")

// HasFiles reports whether dir contains at least one file at any depth. A
// missing directory has no files.
func HasFiles(dir string) (bool, error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return false, nil
}
