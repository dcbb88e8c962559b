// Package filelock serializes shared-state writes across ingestion runs.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Lock is an advisory flock guarding a repository's catalog files.
// Concurrent htpack runs against the same repository queue on it instead
// of interleaving their read-merge-write cycles.
type Lock struct {
	path string
	file *os.File
}

// New returns a lock backed by the given lock file path.
func New(path string) *Lock {
	return &Lock{path: path}
}

// TryAcquire attempts to take the lock without blocking.
// Returns true if the lock was acquired, false if another run holds it.
func (l *Lock) TryAcquire() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("acquire lock: %w", err)
	}

	l.file = f
	return true, nil
}

// Acquire takes the lock, retrying with backoff until timeout expires.
// Unattended runs must fail rather than hang, so there is no unbounded
// blocking variant.
func (l *Lock) Acquire(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	retry := 10 * time.Millisecond

	for {
		acquired, err := l.TryAcquire()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for lock on %s", l.path)
		}

		time.Sleep(retry)
		if retry < 100*time.Millisecond {
			retry *= 2
		}
	}
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close lock file: %w", closeErr)
	}

	return nil
}

// With runs fn while holding the lock.
func (l *Lock) With(timeout time.Duration, fn func() error) error {
	if err := l.Acquire(timeout); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
