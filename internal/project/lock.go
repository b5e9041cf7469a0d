package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// ErrLockTimeout is returned when another invocation holds the project lock
// for longer than the configured timeout.
var ErrLockTimeout = errors.New("timed out waiting for project lock")

const lockPollInterval = 50 * time.Millisecond

// Lock is an advisory flock(2) lock on a file.
type Lock struct {
	file *os.File
	path string
}

// AcquireLock takes an exclusive lock on path, polling until it succeeds or
// ctx is done. The lock file is created if needed and never removed.
func AcquireLock(ctx context.Context, path string) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	for {
		err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) {
			_ = file.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			_ = file.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		case <-time.After(lockPollInterval):
		}
	}

	// Record the holder for diagnostics
	_ = file.Truncate(0)
	_, _ = file.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)

	return &Lock{file: file, path: path}, nil
}

// Release unlocks and closes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	defer func() { l.file = nil }()

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	return l.file.Close()
}

// WithLock ensures the parent directory exists, then runs fn while holding the
// project lock. The lock is released on every exit path.
func (p *Project) WithLock(ctx context.Context, fn func() error) (err error) {
	if err := p.Init(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.lockTimeout)
	defer cancel()

	lock, err := AcquireLock(ctx, p.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	return fn()
}
