package state

import (
	"context"
	"fmt"
	"sync"

	gametypes "github.com/cbodonnell/mafia/pkg/game/types"
)

type InMemoryStateManager struct {
	lock     sync.RWMutex
	snapshot *gametypes.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshot: &gametypes.Snapshot{
			Status: gametypes.StatusSetup,
		},
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (*gametypes.Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.snapshot.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot *gametypes.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if snapshot.Version < m.snapshot.Version {
		return fmt.Errorf("snapshot version %d is older than current version %d", snapshot.Version, m.snapshot.Version)
	}
	m.snapshot = snapshot.Copy()
	return nil
}
