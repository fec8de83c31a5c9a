package state

import (
	"context"
	"testing"

	gametypes "github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	initial, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, gametypes.StatusSetup, initial.Status)

	snapshot := &gametypes.Snapshot{
		Version: 2,
		Status:  gametypes.StatusPlaying,
		State: gametypes.NewGameState([]gametypes.Player{
			{ID: "1", Name: "Ann", Role: gametypes.RoleMafia, IsAlive: true},
		}),
	}
	require.NoError(t, m.Set(ctx, snapshot))

	// mutating the caller's value does not leak into the manager
	snapshot.State.Players[0].IsAlive = false

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.State.Players[0].IsAlive)

	got.State.Players[0].Name = "changed"
	again, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.State.Players[0].Name)
}

func TestInMemoryStateManager_Set(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	assert.Error(t, m.Set(ctx, nil))
	require.NoError(t, m.Set(ctx, &gametypes.Snapshot{Version: 5}))
	assert.Error(t, m.Set(ctx, &gametypes.Snapshot{Version: 4}), "older snapshots are rejected")
}
