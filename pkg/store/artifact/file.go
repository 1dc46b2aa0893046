package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultFileName = "stats.json"

// File is a local artifact. Writes go to a temporary file in the same
// directory which is then renamed over the target.
type File struct {
	Path string
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultFileName
	}
	return &File{Path: path}
}

func (f *File) Location() string {
	return f.Path
}

func (f *File) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("failed to move artifact to %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}
