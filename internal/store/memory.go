package store

import (
	"context"
	"sync"
	"time"

	"ratewatch/internal/models"
)

// Memory is a map-backed AlertStore for tests and redis/postgres-less runs.
type Memory struct {
	mu     sync.RWMutex
	alerts map[string]models.Alert
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{alerts: make(map[string]models.Alert)}
}

func (m *Memory) List(ctx context.Context) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]models.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alert, ok := m.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &alert, nil
}

func (m *Memory) Create(ctx context.Context, alert *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *Memory) Update(ctx context.Context, alert *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.alerts[alert.ID]; !ok {
		return ErrNotFound
	}
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *Memory) UpdateState(ctx context.Context, id string, update StateUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok {
		return ErrNotFound
	}
	alert.Triggered = update.Triggered
	alert.NotificationCount = update.NotificationCount
	alert.LastCheckedAt = update.LastCheckedAt
	alert.UpdatedAt = time.Now()
	m.alerts[id] = alert
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.alerts[id]; !ok {
		return ErrNotFound
	}
	delete(m.alerts, id)
	return nil
}
