package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.db")

	held, err := AcquireLock(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = AcquireLock(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, held.Release())

	again, err := AcquireLock(context.Background(), path)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestWithWriteLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.db")

	ran := false
	err := WithWriteLock(context.Background(), path, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	boom := errors.New("boom")
	err = WithWriteLock(context.Background(), path, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	// Lock released after fn returns an error.
	lock, err := AcquireLock(context.Background(), path)
	require.NoError(t, err)
	assert.NoError(t, lock.Release())
}

func TestRelease_Nil(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
