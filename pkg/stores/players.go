package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/repositories"
)

const (
	PlayersKey     = "players"
	RolesConfigKey = "rolesConfig"
	RolesKey       = "roles"
)

// PlayerStore persists the roster as a JSON array under PlayersKey.
type PlayerStore struct {
	repository repositories.Repository
}

func NewPlayerStore(repository repositories.Repository) *PlayerStore {
	return &PlayerStore{
		repository: repository,
	}
}

// storedPlayer is the loose shape accepted when reading a roster back.
type storedPlayer struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Role    types.RoleKind  `json:"role"`
	IsAlive *bool           `json:"isAlive"`
}

// Load returns the stored roster keeping only players with an id, a name and a known role.
// A missing roster is empty.
func (s *PlayerStore) Load(ctx context.Context) ([]types.Player, error) {
	return s.load(ctx, func(p types.Player) bool {
		return p.Role.Valid()
	})
}

// LoadSeats returns the stored roster before roles are dealt. Only an id and a name are required.
func (s *PlayerStore) LoadSeats(ctx context.Context) ([]types.Player, error) {
	return s.load(ctx, func(p types.Player) bool {
		return p.Role == "" || p.Role.Valid()
	})
}

func (s *PlayerStore) load(ctx context.Context, valid func(types.Player) bool) ([]types.Player, error) {
	value, err := s.repository.Get(ctx, PlayersKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return []types.Player{}, nil
		}
		return nil, fmt.Errorf("failed to get players: %v", err)
	}
	return decodePlayers(value, valid), nil
}

func (s *PlayerStore) Save(ctx context.Context, players []types.Player) error {
	if players == nil {
		players = []types.Player{}
	}
	value, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %v", err)
	}
	if err := s.repository.Set(ctx, PlayersKey, value); err != nil {
		return fmt.Errorf("failed to set players: %v", err)
	}
	return nil
}

func decodePlayers(value []byte, valid func(types.Player) bool) []types.Player {
	var entries []json.RawMessage
	if err := json.Unmarshal(value, &entries); err != nil {
		log.Warn("Stored roster is not a list, ignoring it: %v", err)
		return []types.Player{}
	}

	players := make([]types.Player, 0, len(entries))
	for i, entry := range entries {
		p, ok := decodePlayer(entry)
		if !ok || !valid(p) {
			log.Debug("Skipping malformed roster entry %d", i)
			continue
		}
		players = append(players, p)
	}
	return players
}

func decodePlayer(entry json.RawMessage) (types.Player, bool) {
	var stored storedPlayer
	if err := json.Unmarshal(entry, &stored); err != nil {
		return types.Player{}, false
	}
	id, ok := decodeID(stored.ID)
	if !ok || id == "" || stored.Name == "" {
		return types.Player{}, false
	}

	p := types.Player{
		ID:      id,
		Name:    stored.Name,
		Role:    stored.Role,
		IsAlive: true,
	}
	if stored.IsAlive != nil {
		p.IsAlive = *stored.IsAlive
	}
	return p, true
}

// decodeID accepts string ids and stringifies numeric ones.
func decodeID(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, true
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var number json.Number
	if err := decoder.Decode(&number); err != nil {
		return "", false
	}
	return number.String(), true
}
