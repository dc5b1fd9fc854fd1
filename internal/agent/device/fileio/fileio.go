package fileio

import (
	"io/fs"
)

const (
	// DefaultDirPermissions is the mode used when creating parent directories.
	DefaultDirPermissions fs.FileMode = 0o755
	// DefaultFilePermissions is the mode used when no file permissions are provided.
	DefaultFilePermissions fs.FileMode = 0o600
)

type Writer interface {
	SetRootdir(path string)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(name string, perm fs.FileMode) error
	RemoveFile(name string) error
}

type Reader interface {
	SetRootdir(path string)
	PathFor(filePath string) string
	ReadFile(filePath string) ([]byte, error)
	PathExists(filePath string) (bool, error)
}

type ReadWriter interface {
	Reader
	Writer
}

type readWriter struct {
	*FileReader
	*FileWriter
}

// NewReadWriter returns a ReadWriter rooted at the filesystem root. Use
// SetRootdir to chroot reads and writes under a test directory.
func NewReadWriter() ReadWriter {
	return &readWriter{
		FileReader: NewReader(),
		FileWriter: NewWriter(),
	}
}

func (rw *readWriter) SetRootdir(path string) {
	rw.FileReader.SetRootdir(path)
	rw.FileWriter.SetRootdir(path)
}
