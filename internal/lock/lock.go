// Package lock serializes upgrade runs against the same project with an advisory file lock.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/valen-cli/valen/internal/messages"
)

// ErrLocked reports that another run held the lock for the whole wait window.
var ErrLocked = errors.New(messages.LockHeld)

// FileLock is a held advisory lock. Release it when the run finishes.
type FileLock struct {
	path string
	file *os.File
}

var flockFn = unix.Flock
var lockSleep = time.Sleep

const lockPollEvery = 100 * time.Millisecond

// Acquire opens or creates path and takes an exclusive lock on it.
// It polls until wait elapses; a zero wait tries exactly once.
func Acquire(path string, wait time.Duration) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(file, wait); err != nil {
		_ = file.Close()
		return nil, err
	}
	_ = file.Truncate(0)
	_, _ = fmt.Fprintf(file, "%d\n", os.Getpid())
	return &FileLock{path: path, file: file}, nil
}

// Path returns the lock file location.
func (l *FileLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and closes the lock file. It is safe to call more than once.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := flockFn(int(file.Fd()), unix.LOCK_UN); err != nil {
		_ = file.Close()
		return fmt.Errorf(messages.LockReleaseFmt, l.path, err)
	}
	return file.Close()
}

func lockFile(file *os.File, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf(messages.LockAcquireFmt, file.Name(), err)
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s", ErrLocked, file.Name())
		}
		lockSleep(lockPollEvery)
	}
}
