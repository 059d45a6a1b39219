// Package fs provides atomic file replacement for report writers.
//
// Reports are first written next to their destination and renamed over it
// only once complete, so an interrupted run never leaves a truncated report
// behind and a rerun always replaces the previous file.
package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tempPattern is the os.CreateTemp pattern for in-progress files.
const tempPattern = ".siteaudit-*.tmp"

// WriteAtomic streams content produced by fn into path. The file at path is
// replaced only if fn succeeds.
func WriteAtomic(path string, fn func(w io.Writer) error) error {
	return ReplaceFile(path, func(tmpPath string) error {
		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		if err := fn(w); err != nil {
			_ = f.Close()
			return err
		}
		if err := w.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
}

// ReplaceFile lets fn build a file at a temporary path in the destination
// directory, then renames it over path. It is used by writers whose library
// opens the file itself, such as SQLite.
//
// The temporary file exists and is empty when fn is called. It is removed
// if fn or the rename fails.
func ReplaceFile(path string, fn func(tmpPath string) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := fn(tmpPath); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
