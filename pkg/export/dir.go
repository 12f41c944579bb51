package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir implements Sink on top of a local directory. Names are resolved
// relative to the configured root.
type Dir struct {
	root string
}

// NewDir creates a Dir sink rooted at dir, creating the directory (with
// parents) if it does not already exist.
func NewDir(dir string) (*Dir, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) resolve(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

// Put writes the file, creating parent directories as needed. The content
// type is ignored; local files carry it in their extension.
func (d *Dir) Put(_ context.Context, name, _ string, r io.Reader) error {
	full := d.resolve(name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// Exists reports whether the named file exists.
func (d *Dir) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(d.resolve(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Remove deletes the named file. Removing a missing file returns nil.
func (d *Dir) Remove(_ context.Context, name string) error {
	err := os.Remove(d.resolve(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ Sink = (*Dir)(nil)
