package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another writer holds the database lock.
var ErrLocked = errors.New("database is locked by another writer")

// lockRetryInterval is how often AcquireLock retries a held lock.
const lockRetryInterval = 50 * time.Millisecond

// Lock is an exclusive cross-process lock on a database path.
type Lock struct {
	flock *flock.Flock
}

// LockPath returns the lock file used for dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireLock takes the write lock for dbPath, retrying until ctx is done.
func AcquireLock(ctx context.Context, dbPath string) (*Lock, error) {
	fl := flock.New(LockPath(dbPath))

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dbPath)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", dbPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dbPath)
	}

	return &Lock{flock: fl}, nil
}

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}

// WithWriteLock runs fn while holding the write lock for dbPath.
func WithWriteLock(ctx context.Context, dbPath string, fn func() error) (err error) {
	lock, err := AcquireLock(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("release lock: %w", rerr)
		}
	}()
	return fn()
}
