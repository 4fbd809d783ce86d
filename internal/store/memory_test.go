package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rook-server/internal/rook"
	"rook-server/internal/store"
)

func newStoredGame(t *testing.T, st store.Store, code string) *rook.Game {
	t.Helper()
	game, err := rook.NewGame(code, "Alice")
	require.NoError(t, err)
	require.NoError(t, st.Create(context.Background(), game))
	return game
}

func TestMemoryLoadMissing(t *testing.T) {
	st := store.NewMemory()

	_, err := st.Load(context.Background(), "ABCDEF")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryCreateDuplicate(t *testing.T) {
	st := store.NewMemory()
	game := newStoredGame(t, st, "ABCDEF")

	err := st.Create(context.Background(), game)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestMemoryLoadReturnsACopy(t *testing.T) {
	st := store.NewMemory()
	newStoredGame(t, st, "ABCDEF")
	ctx := context.Background()

	first, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	first.HostName = "Mallory"
	first.Players[0].Name = "Mallory"

	second, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "Alice", second.HostName)
	assert.Equal(t, "Alice", second.Players[0].Name)
}

func TestMemoryConditionalSave(t *testing.T) {
	st := store.NewMemory()
	newStoredGame(t, st, "ABCDEF")
	ctx := context.Background()

	game, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	_, err = game.AddPlayer("Bob", false)
	require.NoError(t, err)
	game.Version = 2

	require.NoError(t, st.ConditionalSave(ctx, game, 1))

	reloaded, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.Version)
	assert.Len(t, reloaded.Players, 2)
}

func TestMemoryConditionalSaveStaleVersion(t *testing.T) {
	st := store.NewMemory()
	newStoredGame(t, st, "ABCDEF")
	ctx := context.Background()

	// Two actors read version 1; the second write must lose.
	first, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	second, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)

	first.Version = 2
	require.NoError(t, st.ConditionalSave(ctx, first, 1))

	second.Version = 2
	err = st.ConditionalSave(ctx, second, 1)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	reloaded, err := st.Load(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.Version)
}

func TestMemoryConditionalSaveMissingGame(t *testing.T) {
	st := store.NewMemory()
	game, err := rook.NewGame("ABCDEF", "Alice")
	require.NoError(t, err)

	err = st.ConditionalSave(context.Background(), game, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryListActiveExcludesFinished(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	newStoredGame(t, st, "AAAAAA")
	finished := newStoredGame(t, st, "BBBBBB")

	finished.Status = rook.StatusFinished
	finished.Version = 2
	require.NoError(t, st.ConditionalSave(ctx, finished, 1))

	games, err := st.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "AAAAAA", games[0].Code)
}

func TestMemoryCleanupFinished(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	stale := newStoredGame(t, st, "AAAAAA")
	stale.Status = rook.StatusFinished
	stale.UpdatedAt = time.Now().Add(-48 * time.Hour)
	stale.Version = 2
	require.NoError(t, st.ConditionalSave(ctx, stale, 1))

	fresh := newStoredGame(t, st, "BBBBBB")
	fresh.Status = rook.StatusFinished
	fresh.Version = 2
	require.NoError(t, st.ConditionalSave(ctx, fresh, 1))

	newStoredGame(t, st, "CCCCCC") // active, must survive any cutoff

	deleted, err := st.CleanupFinished(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = st.Load(ctx, "AAAAAA")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Load(ctx, "BBBBBB")
	assert.NoError(t, err)
	_, err = st.Load(ctx, "CCCCCC")
	assert.NoError(t, err)
}
