package fileio

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// FileWriter writes files to the device filesystem. All writes are atomic:
// a reader never observes a partially written state file, even if the
// process dies mid-write.
type FileWriter struct {
	// rootDir is prefixed to every path, useful for testing
	rootDir string
}

func NewWriter() *FileWriter {
	return &FileWriter{}
}

// SetRootdir sets the root directory for the writer, useful for testing
func (w *FileWriter) SetRootdir(path string) {
	w.rootDir = path
}

// WriteFile writes the provided data to the file at the path with the
// provided permissions, creating parent directories as needed.
func (w *FileWriter) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return writeFileAtomically(filepath.Join(w.rootDir, name), data, DefaultDirPermissions, perm)
}

// MkdirAll creates the directory at the provided path along with any missing
// parents.
func (w *FileWriter) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(w.rootDir, name), perm)
}

// RemoveFile deletes the file at the provided path. Missing files are not an
// error.
func (w *FileWriter) RemoveFile(name string) error {
	if err := os.Remove(filepath.Join(w.rootDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file %q: %w", name, err)
	}
	return nil
}

// writeFileAtomically uses the renameio package to provide atomic file
// writing, we can't use renameio.WriteFile directly since we need to chmod
// and go through a buffer for larger payloads.
func writeFileAtomically(fpath string, b []byte, dirMode, fileMode fs.FileMode) error {
	dir := filepath.Dir(fpath)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	t, err := renameio.TempFile(dir, fpath)
	if err != nil {
		return err
	}
	defer func() {
		_ = t.Cleanup()
	}()
	// Set permissions before writing data, in case the data is sensitive.
	if err := t.Chmod(fileMode); err != nil {
		return err
	}
	bw := bufio.NewWriter(t)
	if _, err := bw.Write(b); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}
