package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdioPath is the path argument that selects standard input or output.
const StdioPath = "-"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	if relPath == StdioPath {
		return StdioPath, "", nil
	}

	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// OpenSource opens path for reading, or returns stdin for "-".
func OpenSource(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == StdioPath {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %q: %w", path, err)
	}
	return f, nil
}

// Destination is an output stream that only replaces its target file once
// Commit is called. Standard output is written directly.
type Destination struct {
	path string
	w    io.Writer
	tmp  *os.File
}

// CreateDestination prepares path for writing, or wraps stdout for "-".
// File output goes to a temporary file next to path.
func CreateDestination(path string, stdout io.Writer) (*Destination, error) {
	if path == StdioPath {
		return &Destination{path: path, w: stdout}, nil
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create destination %q: %w", path, err)
	}
	return &Destination{path: path, w: tmp, tmp: tmp}, nil
}

func (d *Destination) Write(p []byte) (int, error) {
	return d.w.Write(p)
}

// Commit moves the written output into place.
func (d *Destination) Commit() error {
	if d.tmp == nil {
		return nil
	}
	tmp := d.tmp
	d.tmp = nil
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write destination %q: %w", d.path, err)
	}
	return nil
}

// Abort discards the written output. The target file is left untouched.
func (d *Destination) Abort() error {
	if d.tmp == nil {
		return nil
	}
	tmp := d.tmp
	d.tmp = nil
	tmp.Close()
	return os.Remove(tmp.Name())
}
