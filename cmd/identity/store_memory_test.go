package identity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	rec, err := st.Create(ctx, CreateInput{Username: "alice", Salt: "aa", Hash: "bb"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, "alice", rec.Username)

	byName, err := st.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byName.ID)

	byID, err := st.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestMemoryStore_UsernameCaseSensitive(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Create(ctx, CreateInput{Username: "Alice", Salt: "aa", Hash: "bb"})
	require.NoError(t, err)

	_, err = st.FindByUsername(ctx, "alice")
	assert.True(t, IsNotFound(err), "lookup must match the stored string exactly")

	// A different casing is a different username, not a conflict.
	_, err = st.Create(ctx, CreateInput{Username: "alice", Salt: "cc", Hash: "dd"})
	require.NoError(t, err)
}

func TestMemoryStore_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	first, err := st.Create(ctx, CreateInput{Username: "alice", Salt: "aa", Hash: "bb"})
	require.NoError(t, err)

	_, err = st.Create(ctx, CreateInput{Username: "alice", Salt: "cc", Hash: "dd"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// The original record is unaffected by the failed second registration.
	got, err := st.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "aa", got.Salt)
	assert.Equal(t, "bb", got.Hash)
}

func TestMemoryStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	rec, err := st.Create(ctx, CreateInput{Username: "alice", Salt: "aa", Hash: "bb"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteByID(ctx, rec.ID))

	_, err = st.FindByID(ctx, rec.ID)
	assert.True(t, IsNotFound(err))
	_, err = st.FindByUsername(ctx, "alice")
	assert.True(t, IsNotFound(err))

	// Deleting again is a no-op.
	require.NoError(t, st.DeleteByID(ctx, rec.ID))
}

func TestMemoryStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Create(ctx, CreateInput{Username: "  ", Salt: "aa", Hash: "bb"})
	assert.True(t, IsInvalidInput(err))

	_, err = st.Create(ctx, CreateInput{Username: "alice"})
	assert.True(t, IsInvalidInput(err))

	_, err = st.FindByUsername(ctx, "")
	assert.True(t, IsInvalidInput(err))

	_, err = st.FindByID(ctx, "")
	assert.True(t, IsInvalidInput(err))
}

func TestMemoryStore_ConcurrentRegistrations(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	const workers = 16
	var wg sync.WaitGroup
	conflicts := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Create(ctx, CreateInput{Username: "alice", Salt: "aa", Hash: "bb"})
			if err != nil {
				conflicts <- err
			}
		}()
	}
	wg.Wait()
	close(conflicts)

	var n int
	for err := range conflicts {
		assert.True(t, IsConflict(err))
		n++
	}
	assert.Equal(t, workers-1, n, "exactly one registration wins")
}
