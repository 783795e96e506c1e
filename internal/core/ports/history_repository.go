package ports

import (
	"context"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// HistoryRepository persists EmployeeHistory snapshots.
type HistoryRepository interface {
	Create(ctx context.Context, h *domain.EmployeeHistory) (*domain.EmployeeHistory, error)
	// Search matches term case-insensitively against name, contact, email,
	// occupation and description, most recent release first.
	Search(ctx context.Context, term string) ([]*domain.EmployeeHistory, error)
}

// HistoryService exposes the employee history audit trail.
type HistoryService interface {
	Search(ctx context.Context, term string) ([]*domain.EmployeeHistory, error)
}
