package service

import (
	"context"
	"strings"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

type historyService struct {
	repo ports.HistoryRepository
}

// NewHistoryService returns a HistoryService backed by repo.
func NewHistoryService(repo ports.HistoryRepository) ports.HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Search(ctx context.Context, term string) ([]*domain.EmployeeHistory, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}
