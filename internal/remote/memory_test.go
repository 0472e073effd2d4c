package remote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"roster-sync/internal/domain"
	"roster-sync/internal/remote"
)

func TestMemoryCollectionSeed(t *testing.T) {
	m := remote.NewMemoryCollection(
		domain.Employee{ID: 1, Name: "Joe", Age: 45, IsActive: 1},
		domain.Employee{Name: "Ann", Age: 30},
	)

	list, _ := m.List(context.Background())
	if len(list) != 2 || list[1].ID != 2 {
		t.Errorf("Expected seeded record without id to get id 2, got %v", list)
	}
}

func TestMemoryCollectionNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemoryCollection()

	a, _ := m.Create(ctx, domain.Employee{Name: "Al"})
	b, _ := m.Create(ctx, domain.Employee{Name: "Bo"})
	if err := m.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c, _ := m.Create(ctx, domain.Employee{Name: "Cy"})

	if c.ID == a.ID || c.ID == b.ID {
		t.Errorf("Expected fresh id, got %d (used %d, %d)", c.ID, a.ID, b.ID)
	}
}

func TestMemoryCollectionUnknownID(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemoryCollection()

	if _, err := m.Update(ctx, domain.Employee{ID: 5}); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := m.Delete(ctx, 5); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCollectionListIsCopy(t *testing.T) {
	m := remote.NewMemoryCollection(domain.Employee{ID: 1, Name: "Joe"})

	list, _ := m.List(context.Background())
	list[0].Name = "changed"

	again, _ := m.List(context.Background())
	if again[0].Name != "Joe" {
		t.Errorf("Expected collection unaffected, got %v", again)
	}
}

func TestMemoryCollectionLatencyHonoursContext(t *testing.T) {
	m := remote.NewMemoryCollection().WithLatency(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
