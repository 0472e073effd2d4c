package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roster-sync/internal/domain"
)

// MemoryCollection is the local-only variant: there is no backend, so the
// collection itself is the authority. Records keep insertion order.
type MemoryCollection struct {
	mu      sync.Mutex
	records []domain.Employee
	latency time.Duration
}

// NewMemoryCollection seeds the collection. Seed records without an id get one.
func NewMemoryCollection(seed ...domain.Employee) *MemoryCollection {
	m := &MemoryCollection{}
	for _, e := range seed {
		if e.ID == 0 {
			e.ID = m.nextID()
		}
		m.records = append(m.records, e)
	}
	return m
}

// WithLatency delays every call, simulating a slow initial fetch.
func (m *MemoryCollection) WithLatency(d time.Duration) *MemoryCollection {
	m.latency = d
	return m
}

func (m *MemoryCollection) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// nextID is max(id)+1 so ids are never reused after a delete.
func (m *MemoryCollection) nextID() int {
	next := 1
	for _, r := range m.records {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

func (m *MemoryCollection) List(ctx context.Context) ([]domain.Employee, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Employee, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryCollection) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if err := m.wait(ctx); err != nil {
		return domain.Employee{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID()
	m.records = append(m.records, e)
	return e, nil
}

func (m *MemoryCollection) Update(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if err := m.wait(ctx); err != nil {
		return domain.Employee{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == e.ID {
			m.records[i] = e
			return e, nil
		}
	}
	return domain.Employee{}, fmt.Errorf("remote: update employee %d: %w", e.ID, ErrNotFound)
}

func (m *MemoryCollection) Delete(ctx context.Context, id int) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i:i], m.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remote: delete employee %d: %w", id, ErrNotFound)
}
