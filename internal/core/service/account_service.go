package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// AccountService implements registration and profile management for one
// principal type.
type AccountService[P any] struct {
	kind   domain.PrincipalKind[P]
	repo   ports.AccountRepository[P]
	hasher ports.PasswordHasher
	images ports.ImageStore
	log    zerolog.Logger
	now    func() time.Time
}

func NewAccountService[P any](
	kind domain.PrincipalKind[P],
	repo ports.AccountRepository[P],
	hasher ports.PasswordHasher,
	images ports.ImageStore,
	log zerolog.Logger,
) *AccountService[P] {
	return &AccountService[P]{
		kind:   kind,
		repo:   repo,
		hasher: hasher,
		images: images,
		log:    log.With().Str("role", string(kind.Role)).Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register validates the input, hashes the password and stores a new record.
func (s *AccountService[P]) Register(ctx context.Context, in ports.RegisterInput) (P, error) {
	var zero P

	fullName := strings.TrimSpace(in.FullName)
	contact := strings.TrimSpace(in.ContactNumber)
	email := domain.NormalizeEmail(in.EmailAddress)

	switch {
	case fullName == "":
		return zero, domain.NewValidationError("full name is required")
	case contact == "":
		return zero, domain.NewValidationError("contact number is required")
	case len(in.Password) < domain.MinPasswordLength:
		return zero, domain.NewValidationError("password must be at least %d characters", domain.MinPasswordLength)
	case len(in.Password) > domain.MaxPasswordLength:
		return zero, domain.NewValidationError("password must be at most %d bytes", domain.MaxPasswordLength)
	case email == "":
		return zero, domain.NewValidationError("email address is required")
	}

	taken, err := s.repo.EmailTaken(ctx, email, "")
	if err != nil {
		return zero, fmt.Errorf("register: %w", err)
	}
	if taken {
		return zero, domain.ErrEmailTaken
	}

	var image *string
	if strings.TrimSpace(in.UserImage) != "" {
		path, err := s.images.Save(in.UserImage, s.kind.Folder)
		if err != nil {
			return zero, err
		}
		image = &path
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.discardImage(image)
		return zero, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, s.kind.New(domain.Account{
		FullName:      fullName,
		ContactNumber: contact,
		EmailAddress:  email,
		PasswordHash:  hash,
		UserImage:     image,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
	if err != nil {
		s.discardImage(image)
		if errors.Is(err, domain.ErrEmailTaken) {
			return zero, err
		}
		return zero, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", s.kind.Account(created).ID).Msg("account registered")
	return created, nil
}

// Profile returns the record identified by id.
func (s *AccountService[P]) Profile(ctx context.Context, id string) (P, error) {
	return s.repo.FindByID(ctx, id)
}

// Search lists records matching term; an empty term lists everything.
func (s *AccountService[P]) Search(ctx context.Context, term string) ([]P, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

// Update applies a partial profile edit. Only non-nil fields are touched.
func (s *AccountService[P]) Update(ctx context.Context, id string, in ports.UpdateAccountInput) (P, error) {
	var zero P

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	current := s.kind.Account(existing)

	var changes ports.AccountChanges

	if in.FullName != nil {
		v := strings.TrimSpace(*in.FullName)
		if v == "" {
			return zero, domain.NewValidationError("full name cannot be empty")
		}
		changes.FullName = &v
	}

	if in.ContactNumber != nil {
		v := strings.TrimSpace(*in.ContactNumber)
		if v == "" {
			return zero, domain.NewValidationError("contact number cannot be empty")
		}
		changes.ContactNumber = &v
	}

	if in.EmailAddress != nil {
		v := domain.NormalizeEmail(*in.EmailAddress)
		if v == "" {
			return zero, domain.NewValidationError("email address cannot be empty")
		}
		if v != current.EmailAddress {
			taken, err := s.repo.EmailTaken(ctx, v, current.ID)
			if err != nil {
				return zero, fmt.Errorf("update: %w", err)
			}
			if taken {
				return zero, domain.ErrEmailTaken
			}
		}
		changes.EmailAddress = &v
	}

	if in.Password != nil {
		if strings.TrimSpace(*in.Password) == "" {
			return zero, domain.NewValidationError("password cannot be empty")
		}
		if len(*in.Password) < domain.MinPasswordLength {
			return zero, domain.NewValidationError("password must be at least %d characters", domain.MinPasswordLength)
		}
		if len(*in.Password) > domain.MaxPasswordLength {
			return zero, domain.NewValidationError("password must be at most %d bytes", domain.MaxPasswordLength)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return zero, fmt.Errorf("update: hash password: %w", err)
		}
		changes.PasswordHash = &hash
	}

	if changes == (ports.AccountChanges{}) && (in.UserImage == nil || strings.TrimSpace(*in.UserImage) == "") {
		return zero, domain.NewValidationError("no fields to update")
	}

	// The new image is written before the record points at it and the old
	// one is removed only once the record no longer does.
	if in.UserImage != nil && strings.TrimSpace(*in.UserImage) != "" {
		path, err := s.images.Save(*in.UserImage, s.kind.Folder)
		if err != nil {
			return zero, err
		}
		changes.UserImage = &path
	}

	updated, err := s.repo.Update(ctx, current.ID, changes)
	if err != nil {
		s.discardImage(changes.UserImage)
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrEmailTaken) {
			return zero, err
		}
		return zero, fmt.Errorf("update: %w", err)
	}

	if changes.UserImage != nil {
		s.discardImage(current.UserImage)
	}

	s.log.Info().Str("account_id", current.ID).Msg("account updated")
	return updated, nil
}

// Delete removes the record and then its profile image. Image cleanup
// failures are logged and do not fail the call.
func (s *AccountService[P]) Delete(ctx context.Context, id string) (P, error) {
	var zero P

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	account := s.kind.Account(existing)

	if err := s.repo.Delete(ctx, account.ID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("delete: %w", err)
	}
	s.discardImage(account.UserImage)

	s.log.Info().Str("account_id", account.ID).Msg("account deleted")
	return existing, nil
}

func (s *AccountService[P]) discardImage(path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := s.images.Delete(*path); err != nil {
		s.log.Warn().Err(err).Str("image", *path).Msg("failed to delete image")
	}
}
