package ports

import (
	"context"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// PackageInput carries the fields of a package create or update.
// PromotionalPrice falls back to GeneralPrice when nil or zero. IsActive
// defaults to true on create and to the stored value on update.
type PackageInput struct {
	Name             string
	Features         string
	GeneralPrice     float64
	PromotionalPrice *float64
	IsActive         *bool
}

// PackageService manages the service-package catalog.
type PackageService interface {
	Create(ctx context.Context, in PackageInput) (*domain.Package, error)
	List(ctx context.Context) ([]*domain.Package, error)
	Update(ctx context.Context, id string, in PackageInput) (*domain.Package, error)
	Delete(ctx context.Context, id string) (*domain.Package, error)
}
