package ports

import (
	"context"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account. UserImage is an optional
// base64 data URI.
type RegisterInput struct {
	FullName      string
	ContactNumber string
	EmailAddress  string
	Password      string
	UserImage     string
}

// UpdateAccountInput carries a profile edit. Nil fields are left unchanged.
type UpdateAccountInput struct {
	FullName      *string
	ContactNumber *string
	EmailAddress  *string
	Password      *string
	UserImage     *string
}

// AccountService manages the profile side of a principal type.
type AccountService[P any] interface {
	Register(ctx context.Context, in RegisterInput) (P, error)
	Profile(ctx context.Context, id string) (P, error)
	Search(ctx context.Context, term string) ([]P, error)
	Update(ctx context.Context, id string, in UpdateAccountInput) (P, error)
	Delete(ctx context.Context, id string) (P, error)
}

// ReleaseInput describes why an administrator is being removed.
type ReleaseInput struct {
	Occupation  string
	Description string
}

// AdminService manages administrator accounts. Removing an administrator goes
// through Release so the audit snapshot is always written.
type AdminService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Admin, error)
	Profile(ctx context.Context, id string) (*domain.Admin, error)
	Search(ctx context.Context, term string) ([]*domain.Admin, error)
	Update(ctx context.Context, id string, in UpdateAccountInput) (*domain.Admin, error)
	Release(ctx context.Context, id string, in ReleaseInput) (*domain.EmployeeHistory, error)
}
