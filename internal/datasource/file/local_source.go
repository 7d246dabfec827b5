// Package file implements datasource.Source for local files, plus the
// helpers the CLI needs around them: atomic writes for snapshots and
// results, code lists, and change notification for watch mode.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local reads and writes one path on the local disk.
type Local struct{ path string }

func NewLocal(path string) *Local { return &Local{path: path} }

func (l *Local) Path() string { return l.path }

// Open returns the file for reading. A context that is already done
// short-circuits before touching the filesystem. Errors wrap the os error, so
// errors.Is(err, os.ErrNotExist) works.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Write creates parent directories and replaces the file with what fill
// writes. Data goes to a temporary file in the same directory that is
// renamed into place only when fill succeeds, so readers never see a
// partial snapshot.
func (l *Local) Write(ctx context.Context, fill func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(l.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", l.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace %s: %w", l.path, err)
	}
	return nil
}
