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

const defaultPackageCacheTTL = 5 * time.Minute

// PackageService manages the catalog. The list view is served through an
// optional cache which every write invalidates.
type PackageService struct {
	repo     ports.PackageRepository
	cache    ports.PackageCache
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewPackageService builds the service. cache may be nil.
func NewPackageService(repo ports.PackageRepository, cache ports.PackageCache, cacheTTL time.Duration, log zerolog.Logger) *PackageService {
	if cacheTTL <= 0 {
		cacheTTL = defaultPackageCacheTTL
	}
	return &PackageService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func validatePackage(in ports.PackageInput) (name, features string, promo float64, err error) {
	name = domain.NormalizePackageName(in.Name)
	features = strings.TrimSpace(in.Features)

	switch {
	case name == "":
		return "", "", 0, domain.NewValidationError("package name is required")
	case features == "":
		return "", "", 0, domain.NewValidationError("package features are required")
	case in.GeneralPrice <= 0:
		return "", "", 0, domain.NewValidationError("valid general price is required")
	}

	promo = in.GeneralPrice
	if in.PromotionalPrice != nil && *in.PromotionalPrice != 0 {
		if *in.PromotionalPrice < 0 {
			return "", "", 0, domain.NewValidationError("promotional price must be a valid number")
		}
		promo = *in.PromotionalPrice
	}
	return name, features, promo, nil
}

func (s *PackageService) Create(ctx context.Context, in ports.PackageInput) (*domain.Package, error) {
	name, features, promo, err := validatePackage(in)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.NameTaken(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	if taken {
		return nil, domain.ErrPackageNameTaken
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Package{
		Name:             name,
		Features:         features,
		GeneralPrice:     in.GeneralPrice,
		PromotionalPrice: promo,
		IsActive:         active,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPackageNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create package: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Str("package_id", created.ID).Str("package_name", created.Name).Msg("package created")
	return created, nil
}

// List returns every package, newest first.
func (s *PackageService) List(ctx context.Context) ([]*domain.Package, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		pkgs, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("package cache read failed, falling back to store")
		} else if ok {
			return pkgs, nil
		}
		// The generation is read before the store so a write that lands
		// during the read keeps the stale list out of the cache.
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.log.Warn().Err(err).Msg("package cache generation read failed")
		} else {
			cacheable = true
		}
	}

	pkgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, gen, pkgs, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("package cache write failed")
		}
	}
	return pkgs, nil
}

func (s *PackageService) Update(ctx context.Context, id string, in ports.PackageInput) (*domain.Package, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, features, promo, err := validatePackage(in)
	if err != nil {
		return nil, err
	}

	if name != domain.NormalizePackageName(existing.Name) {
		taken, err := s.repo.NameTaken(ctx, name, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("update package: %w", err)
		}
		if taken {
			return nil, domain.ErrPackageNameTaken
		}
	}

	next := *existing
	next.Name = name
	next.Features = features
	next.GeneralPrice = in.GeneralPrice
	next.PromotionalPrice = promo
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}
	next.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrPackageNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("update package: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Str("package_id", updated.ID).Msg("package updated")
	return updated, nil
}

// Delete removes a package and returns the removed record.
func (s *PackageService) Delete(ctx context.Context, id string) (*domain.Package, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete package: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Str("package_id", existing.ID).Msg("package deleted")
	return existing, nil
}

func (s *PackageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("package cache invalidation failed")
	}
}
