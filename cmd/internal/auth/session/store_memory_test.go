package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BindLookup(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Hour)))

	b, err := st.Lookup(ctx, "sess-1", now)
	require.NoError(t, err)
	assert.Equal(t, "user-1", b.UserID)
}

func TestMemoryStore_BindOverwrites(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Hour)))
	require.NoError(t, st.Bind(ctx, "sess-1", "user-2", now, now.Add(time.Hour)))

	// At most one bound identifier per session: last write wins.
	b, err := st.Lookup(ctx, "sess-1", now)
	require.NoError(t, err)
	assert.Equal(t, "user-2", b.UserID)
}

func TestMemoryStore_ExpiredIsAbsent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Minute)))

	_, err := st.Lookup(ctx, "sess-1", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestMemoryStore_UnbindIdempotent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Hour)))
	require.NoError(t, st.Unbind(ctx, "sess-1"))

	_, err := st.Lookup(ctx, "sess-1", now)
	assert.ErrorIs(t, err, ErrBindingNotFound)

	// Unbinding an already-unbound session is a no-op.
	require.NoError(t, st.Unbind(ctx, "sess-1"))
}

func TestMemoryStore_UnbindAll(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Hour)))
	require.NoError(t, st.Bind(ctx, "sess-2", "user-1", now, now.Add(time.Hour)))
	require.NoError(t, st.Bind(ctx, "sess-3", "user-2", now, now.Add(time.Hour)))

	require.NoError(t, st.UnbindAll(ctx, "user-1"))

	_, err := st.Lookup(ctx, "sess-1", now)
	assert.ErrorIs(t, err, ErrBindingNotFound)
	_, err = st.Lookup(ctx, "sess-2", now)
	assert.ErrorIs(t, err, ErrBindingNotFound)

	b, err := st.Lookup(ctx, "sess-3", now)
	require.NoError(t, err)
	assert.Equal(t, "user-2", b.UserID)
}

func TestMemoryStore_PruneExpired(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, st.Bind(ctx, "sess-1", "user-1", now, now.Add(time.Minute)))
	require.NoError(t, st.Bind(ctx, "sess-2", "user-2", now, now.Add(time.Hour)))

	n, err := st.PruneExpired(ctx, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = st.Lookup(ctx, "sess-2", now.Add(30*time.Minute))
	require.NoError(t, err)
}
