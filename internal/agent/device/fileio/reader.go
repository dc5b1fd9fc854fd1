package fileio

import (
	"fmt"
	"os"
	"path"
)

// FileReader reads files from the device filesystem.
type FileReader struct {
	// rootDir is prefixed to every path, useful for testing
	rootDir string
}

func NewReader() *FileReader {
	return &FileReader{}
}

// SetRootdir sets the root directory for the reader, useful for testing
func (r *FileReader) SetRootdir(path string) {
	r.rootDir = path
}

// PathFor returns the full path for the provided file, useful for functions
// and libraries that don't work through the fileio.Reader.
func (r *FileReader) PathFor(filePath string) string {
	return path.Join(r.rootDir, filePath)
}

// ReadFile reads the file at the provided path
func (r *FileReader) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(r.PathFor(filePath))
}

// PathExists reports whether the path exists. An error is returned only for
// stat failures other than non-existence.
func (r *FileReader) PathExists(filePath string) (bool, error) {
	_, err := os.Stat(r.PathFor(filePath))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking path %q: %w", filePath, err)
}
