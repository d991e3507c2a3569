// Package filestore keeps the team document in a local JSON file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/daniloc96/gitcode-team-roster/internal/interfaces"
	"github.com/gofrs/flock"
)

// ErrNotFound is returned by Load when the document file does not exist.
var ErrNotFound = fmt.Errorf("document file: %w", interfaces.ErrDocumentNotFound)

const lockRetryDelay = 50 * time.Millisecond

// Store reads a document from one path and writes it to another, usually the same.
type Store struct {
	input  string
	output string
}

// New creates a store. An empty output writes back to input.
func New(input, output string) *Store {
	if output == "" {
		output = input
	}
	return &Store{input: input, output: output}
}

// Path returns the file Load reads from.
func (s *Store) Path() string {
	return s.input
}

// Load returns the raw document bytes.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.input)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.input)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.input, err)
	}
	return data, nil
}

// Save writes data to a temp file next to the output and renames it into place,
// holding an advisory lock so concurrent runs do not interleave.
func (s *Store) Save(ctx context.Context, data []byte) error {
	dir := filepath.Dir(s.output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	lock := flock.New(s.output + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("locking %s: %w", s.output, err)
	}
	if !locked {
		return fmt.Errorf("locking %s: lock not acquired", s.output)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.output); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
