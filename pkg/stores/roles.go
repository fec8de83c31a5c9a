package stores

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/repositories"
)

// RoleConfigStore persists the role configuration and the last dealt roles.
type RoleConfigStore struct {
	repository repositories.Repository
}

func NewRoleConfigStore(repository repositories.Repository) *RoleConfigStore {
	return &RoleConfigStore{
		repository: repository,
	}
}

// Load returns the stored configuration. A missing configuration is returned as *repositories.ErrNotFound.
func (s *RoleConfigStore) Load(ctx context.Context) (types.RoleConfig, error) {
	var cfg types.RoleConfig
	if err := s.get(ctx, RolesConfigKey, &cfg); err != nil {
		return types.RoleConfig{}, err
	}
	return cfg, nil
}

func (s *RoleConfigStore) Save(ctx context.Context, cfg types.RoleConfig) error {
	return s.set(ctx, RolesConfigKey, cfg)
}

// LoadAssignment returns the roles dealt for the last game, in seat order.
func (s *RoleConfigStore) LoadAssignment(ctx context.Context) ([]types.RoleKind, error) {
	var roles []types.RoleKind
	if err := s.get(ctx, RolesKey, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleConfigStore) SaveAssignment(ctx context.Context, roles []types.RoleKind) error {
	return s.set(ctx, RolesKey, roles)
}

func (s *RoleConfigStore) get(ctx context.Context, key string, v interface{}) error {
	value, err := s.repository.Get(ctx, key)
	if err != nil {
		if repositories.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to get %s: %v", key, err)
	}
	if err := json.Unmarshal(value, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %v", key, err)
	}
	return nil
}

func (s *RoleConfigStore) set(ctx context.Context, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", key, err)
	}
	if err := s.repository.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %v", key, err)
	}
	return nil
}
