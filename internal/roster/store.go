package roster

import (
	"sync"

	"roster-sync/internal/domain"
)

// Store holds the last-known-good list of records in server response order.
// Ids are unique after every operation.
type Store struct {
	mu      sync.RWMutex
	records []domain.Employee
}

func NewStore() *Store {
	return &Store{}
}

// SetAll replaces the list. A repeated id keeps its first occurrence; the
// number of dropped records is returned.
func (s *Store) SetAll(records []domain.Employee) int {
	seen := make(map[int]bool, len(records))
	out := make([]domain.Employee, 0, len(records))
	dropped := 0
	for _, r := range records {
		if seen[r.ID] {
			dropped++
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}

	s.mu.Lock()
	s.records = out
	s.mu.Unlock()
	return dropped
}

// Upsert replaces the record with the same id, or appends it.
func (s *Store) Upsert(rec domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// RemoveByID drops the record with id and reports whether one was found.
func (s *Store) RemoveByID(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(id int) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Employee{}, false
}

// Snapshot returns a copy safe to hand to a renderer.
func (s *Store) Snapshot() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
