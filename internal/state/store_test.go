package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/state"
	"github.com/alexisbeaulieu97/hivelab/internal/state/statetest"
)

func TestMemoryStoreContract(t *testing.T) {
	statetest.RunStoreContract(t, state.NewMemoryStore())
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	store := state.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, "tool", state.NewSnapshot()), context.Canceled)
	_, err := store.Load(ctx, "tool")
	require.ErrorIs(t, err, context.Canceled)
}
