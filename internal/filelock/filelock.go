// Package filelock serializes runs against a document across goroutines and
// processes, and writes files atomically.
package filelock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock file lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by the file at path.
func New(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForDocument returns the lock guarding runs against the document at
// docPath. Lock files live in dir, named after a hash of the absolute
// document path so that different spellings of one path share a lock.
func ForDocument(dir, docPath string) (*FileLock, error) {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", docPath, err)
	}

	if len(dir) == 0 {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory %s: %w", dir, err)
	}

	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	name := "mdplay-" + hex.EncodeToString(sum[:8]) + ".lock"

	return New(filepath.Join(dir, name)), nil
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}

	return nil
}

// TryLock attempts to acquire the lock without blocking. It reports false when
// the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}

	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}

	return nil
}

// AtomicWrite replaces the file at path with data by writing a sibling
// temporary file and renaming it over the target. An existing file keeps its
// permissions; new files get perm.
func AtomicWrite(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)

	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".mdplay-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		tmp = nil

		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tmp = nil

	return nil
}
