package ports

import (
	"context"
	"time"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// PackageRepository defines persistence operations for catalog packages.
type PackageRepository interface {
	Create(ctx context.Context, p *domain.Package) (*domain.Package, error)
	FindByID(ctx context.Context, id string) (*domain.Package, error)
	// NameTaken reports whether a package other than excludeID uses name.
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context) ([]*domain.Package, error)
	Update(ctx context.Context, p *domain.Package) (*domain.Package, error)
	Delete(ctx context.Context, id string) error
}

// PackageCache holds the rendered catalog list between writes.
// Invalidate advances the generation; Set stores a list only when gen is
// still the current generation, so a read that raced a write is dropped.
type PackageCache interface {
	Get(ctx context.Context) ([]*domain.Package, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, pkgs []*domain.Package, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
