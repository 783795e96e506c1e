package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// AdminService layers administrator rules over the shared account service:
// updates are full edits of name, contact and email, and removal writes an
// EmployeeHistory snapshot before the record is deleted.
type AdminService struct {
	*AccountService[*domain.Admin]
	history ports.HistoryRepository
}

func NewAdminService(
	repo ports.AccountRepository[*domain.Admin],
	history ports.HistoryRepository,
	hasher ports.PasswordHasher,
	images ports.ImageStore,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		AccountService: NewAccountService(domain.AdminKind, repo, hasher, images, log),
		history:        history,
	}
}

// Update requires name, contact and email on every edit. An empty password
// means "keep the current one".
func (s *AdminService) Update(ctx context.Context, id string, in ports.UpdateAccountInput) (*domain.Admin, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	switch {
	case in.FullName == nil || strings.TrimSpace(*in.FullName) == "":
		return nil, domain.NewValidationError("full name is required")
	case in.ContactNumber == nil || strings.TrimSpace(*in.ContactNumber) == "":
		return nil, domain.NewValidationError("contact number is required")
	case in.EmailAddress == nil || strings.TrimSpace(*in.EmailAddress) == "":
		return nil, domain.NewValidationError("email address is required")
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) == "" {
		in.Password = nil
	}

	return s.AccountService.Update(ctx, id, in)
}

// Release removes an administrator. The history snapshot is written first so
// a failed delete never loses the audit record.
func (s *AdminService) Release(ctx context.Context, id string, in ports.ReleaseInput) (*domain.EmployeeHistory, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	occupation := strings.TrimSpace(in.Occupation)
	if occupation == "" {
		occupation = domain.DefaultOccupation
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = domain.DefaultReleaseDescription
	}

	now := s.now()
	entry, err := s.history.Create(ctx, &domain.EmployeeHistory{
		FullName:       admin.FullName,
		ContactNumber:  admin.ContactNumber,
		EmailAddress:   admin.EmailAddress,
		UserImage:      admin.UserImage,
		RegisteredDate: admin.CreatedAt,
		ReleaseDate:    now,
		Occupation:     occupation,
		Description:    description,
		AdminID:        admin.ID,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("release admin: write history: %w", err)
	}

	if err := s.repo.Delete(ctx, admin.ID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("release admin: %w", err)
	}
	s.discardImage(admin.UserImage)

	s.log.Info().
		Str("account_id", admin.ID).
		Str("history_id", entry.ID).
		Msg("administrator released")

	return entry, nil
}
