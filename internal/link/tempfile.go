package link

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix starts the name of every file TempWriter creates.
const DefaultPrefix = "nbpreview-"

// TempWriter writes content to new files named <Prefix><uuid>.<ext> in
// Dir. Files are created exclusively and never overwritten.
type TempWriter struct {
	// Dir defaults to os.TempDir().
	Dir string
	// Prefix defaults to DefaultPrefix.
	Prefix string
}

// Write creates a new file holding content and returns its absolute path.
func (w TempWriter) Write(content []byte, extension string) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	prefix := w.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	name := prefix + uuid.NewString()
	if ext := strings.TrimPrefix(extension, "."); ext != "" {
		name += "." + ext
	}
	path, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // G304: name is generated
	if err != nil {
		return "", err
	}
	if _, err := f.Write(content); err != nil {
		return "", errors.Join(err, f.Close(), os.Remove(path))
	}
	if err := f.Close(); err != nil {
		return "", errors.Join(err, os.Remove(path))
	}
	return path, nil
}
