package repositories

import (
	"context"
	"sync"
)

// InMemoryRepository keeps values in a map. Nothing survives a restart.
type InMemoryRepository struct {
	lock   sync.RWMutex
	values map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		values: make(map[string][]byte),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	return append([]byte(nil), value...), nil
}

func (r *InMemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.values, key)
	return nil
}
