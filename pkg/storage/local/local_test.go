package local

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

func TestStoreGetDelete(t *testing.T) {
	store, err := New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Store(ctx, bytes.NewReader([]byte("payload")), "parts/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "parts/a.pdf", key)

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.Error(t, err)

	// deleting a missing object is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Store(ctx, bytes.NewReader(nil), "../outside")
	assert.Error(t, err)
	_, err = store.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestCleanupBefore(t *testing.T) {
	store, err := New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Store(ctx, bytes.NewReader([]byte("x")), "old.pdf")
	require.NoError(t, err)

	// everything written so far is older than a future threshold
	require.NoError(t, store.CleanupBefore(ctx, time.Now().Add(time.Hour)))
	_, err = store.Get(ctx, "old.pdf")
	assert.Error(t, err)
}
