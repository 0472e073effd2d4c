package remote

import (
	"context"
	"errors"

	"roster-sync/internal/domain"
)

var ErrNotFound = errors.New("remote: employee not found")

// Collection is the authoritative employee collection. The sync engine talks
// to it only through this interface, so the HTTP-backed and the local-only
// variants are interchangeable.
type Collection interface {
	List(ctx context.Context) ([]domain.Employee, error)
	Create(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Update(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Delete(ctx context.Context, id int) error
}
