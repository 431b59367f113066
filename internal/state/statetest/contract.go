// Package statetest holds behaviour checks shared by every state.Store implementation.
package statetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

// RunStoreContract exercises the Store behaviour every adapter must honour.
func RunStoreContract(t *testing.T, store state.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-tool")
		require.ErrorIs(t, err, state.ErrSnapshotNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		snap := state.NewSnapshot()
		snap.Counters["poll-1:Option A"] = 4
		snap.Collections["rsvp-1:attendees"] = map[string]state.Entry{
			"u1": {ID: "u1", CreatedBy: "alice", Data: map[string]any{"displayName": "Alice"}},
		}

		require.NoError(t, store.Save(ctx, "tool-1", snap))

		loaded, err := store.Load(ctx, "tool-1")
		require.NoError(t, err)
		require.Equal(t, float64(4), loaded.Counters["poll-1:Option A"])
		require.Equal(t, "Alice", loaded.Collections["rsvp-1:attendees"]["u1"].Data["displayName"])
		require.Equal(t, int64(1), loaded.Version)
		require.NotEmpty(t, loaded.LastModified)
	})

	t.Run("version is monotonic", func(t *testing.T) {
		first, err := store.Load(ctx, "tool-1")
		require.NoError(t, err)

		stale := state.NewSnapshot()
		require.NoError(t, store.Save(ctx, "tool-1", stale))

		second, err := store.Load(ctx, "tool-1")
		require.NoError(t, err)
		require.Greater(t, second.Version, first.Version)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "tool-0", state.NewSnapshot()))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"tool-0", "tool-1"}, ids)

		require.NoError(t, store.Delete(ctx, "tool-0"))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "tool-1"))
		_, err := store.Load(ctx, "tool-1")
		require.ErrorIs(t, err, state.ErrSnapshotNotFound)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		require.Empty(t, ids)
	})
}
