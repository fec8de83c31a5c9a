package stores

import (
	"context"
	"errors"
	"testing"

	mocks "github.com/cbodonnell/mafia/mocks/github.com/cbodonnell/mafia/pkg/repositories"
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayerStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		want      []types.Player
		wantSeats []types.Player
	}{
		{
			name:   "valid roster",
			stored: `[{"id":"1","name":"Ann","role":"mafia","isAlive":true},{"id":"2","name":"Bob","role":"doctor","isAlive":false}]`,
			want: []types.Player{
				{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: true},
				{ID: "2", Name: "Bob", Role: types.RoleDoctor, IsAlive: false},
			},
			wantSeats: []types.Player{
				{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: true},
				{ID: "2", Name: "Bob", Role: types.RoleDoctor, IsAlive: false},
			},
		},
		{
			name:   "numeric id and missing isAlive",
			stored: `[{"id":7,"name":"Cat","role":"citizen"}]`,
			want: []types.Player{
				{ID: "7", Name: "Cat", Role: types.RoleCitizen, IsAlive: true},
			},
			wantSeats: []types.Player{
				{ID: "7", Name: "Cat", Role: types.RoleCitizen, IsAlive: true},
			},
		},
		{
			name: "malformed entries are dropped",
			stored: `[
				{"id":"1","name":"Ann","role":"mafia"},
				{"id":"","name":"Empty","role":"mafia"},
				{"id":"3","name":"","role":"mafia"},
				{"id":"4","name":"Dan","role":"jester"},
				{"id":"5","name":42,"role":"citizen"},
				{"id":true,"name":"Eve","role":"citizen"},
				"nonsense",
				null,
				{"id":"6","name":"Fay"}
			]`,
			want: []types.Player{
				{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: true},
			},
			wantSeats: []types.Player{
				{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: true},
				{ID: "6", Name: "Fay", IsAlive: true},
			},
		},
		{
			name:      "not a list",
			stored:    `{"id":"1"}`,
			want:      []types.Player{},
			wantSeats: []types.Player{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := repositories.NewInMemoryRepository()
			require.NoError(t, repo.Set(ctx, PlayersKey, []byte(tt.stored)))
			store := NewPlayerStore(repo)

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			seats, err := store.LoadSeats(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeats, seats)
		})
	}
}

func TestPlayerStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore(repositories.NewInMemoryRepository())

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	players := []types.Player{
		{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: false},
		{ID: "2", Name: "Bob", Role: types.RoleCitizen, IsAlive: true},
	}
	require.NoError(t, store.Save(ctx, players))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, players, got)
}

func TestPlayerStore_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	store := NewPlayerStore(repo)

	repo.EXPECT().Get(mock.Anything, PlayersKey).Return(nil, errors.New("disk on fire")).Once()
	_, err := store.Load(ctx)
	assert.ErrorContains(t, err, "disk on fire")

	repo.EXPECT().Set(mock.Anything, PlayersKey, []byte(`[]`)).Return(errors.New("read only")).Once()
	assert.ErrorContains(t, store.Save(ctx, nil), "read only")
}

func TestRoleConfigStore(t *testing.T) {
	ctx := context.Background()
	store := NewRoleConfigStore(repositories.NewInMemoryRepository())

	_, err := store.Load(ctx)
	assert.True(t, repositories.IsNotFound(err))

	cfg := types.RoleConfig{Mafia: 2, Doctor: 1, Detective: 1, Citizen: 3}
	require.NoError(t, store.Save(ctx, cfg))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	roles := []types.RoleKind{types.RoleCitizen, types.RoleMafia}
	require.NoError(t, store.SaveAssignment(ctx, roles))
	gotRoles, err := store.LoadAssignment(ctx)
	require.NoError(t, err)
	assert.Equal(t, roles, gotRoles)
}

func TestRoleConfigStore_CorruptedConfig(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	repo.EXPECT().Get(mock.Anything, RolesConfigKey).Return([]byte(`"six"`), nil).Once()

	_, err := NewRoleConfigStore(repo).Load(ctx)
	require.Error(t, err)
	assert.False(t, repositories.IsNotFound(err))
}
