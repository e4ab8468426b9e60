package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// MIME types for the two export formats.
const (
	MIMEMarkdown = "text/markdown"
	MIMEPDF      = "application/pdf"
)

// Saver delivers a finished export to the user as a named file.
type Saver interface {
	Save(name, mime string, data []byte) (string, error)
}

// DirSaver writes exports into a directory and returns the full path.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name, _ string, data []byte) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
