package store

import (
	"context"
	"sync"

	"bikeshop-backend/models"
)

// Memory keeps the snapshot in process. It backs tests and ephemeral runs.
type Memory struct {
	mu       sync.RWMutex
	snap     models.Snapshot
	services []models.RepairService
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadAll(ctx context.Context) (models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Copy(), nil
}

func (m *Memory) SaveAll(ctx context.Context, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Copy()
	return nil
}

func (m *Memory) LoadServices(ctx context.Context) ([]models.RepairService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.RepairService(nil), m.services...), nil
}

func (m *Memory) SaveServices(ctx context.Context, services []models.RepairService) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append([]models.RepairService(nil), services...)
	return nil
}
