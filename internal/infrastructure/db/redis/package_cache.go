package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

const (
	packageListKey = "catalog:packages"
	packageGenKey  = "catalog:packages:gen"
)

// PackageCache keeps the rendered package list under a single key.
// Any catalog write drops the key and bumps the generation counter; the
// next read repopulates it unless another write landed in between.
type PackageCache struct {
	client *redis.Client
}

var _ ports.PackageCache = (*PackageCache)(nil)

// NewPackageCache creates a PackageCache wrapping the given Redis client.
func NewPackageCache(client *redis.Client) *PackageCache {
	return &PackageCache{client: client}
}

type cachedPackage struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Features         string    `json:"features"`
	GeneralPrice     float64   `json:"general_price"`
	PromotionalPrice float64   `json:"promotional_price"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Get returns the cached list. ok is false on a miss.
func (c *PackageCache) Get(ctx context.Context) ([]*domain.Package, bool, error) {
	raw, err := c.client.Get(ctx, packageListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("package cache get: %w", err)
	}

	pkgs, err := decodePackages(raw)
	if err != nil {
		return nil, false, err
	}
	return pkgs, true, nil
}

// Generation returns the current write generation. A missing counter is 0.
func (c *PackageCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, packageGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("package cache generation: %w", err)
	}
	return gen, nil
}

// Set stores pkgs if gen is still current. The counter is watched so an
// Invalidate between the check and the write aborts the transaction.
func (c *PackageCache) Set(ctx context.Context, gen int64, pkgs []*domain.Package, ttl time.Duration) error {
	raw, err := encodePackages(pkgs)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, packageGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, packageListKey, raw, ttl)
			return nil
		})
		return err
	}, packageGenKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("package cache set: %w", err)
	}
	return nil
}

func (c *PackageCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, packageGenKey)
		pipe.Del(ctx, packageListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("package cache invalidate: %w", err)
	}
	return nil
}

func encodePackages(pkgs []*domain.Package) ([]byte, error) {
	out := make([]cachedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, cachedPackage{
			ID:               p.ID,
			Name:             p.Name,
			Features:         p.Features,
			GeneralPrice:     p.GeneralPrice,
			PromotionalPrice: p.PromotionalPrice,
			IsActive:         p.IsActive,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
		})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("package cache encode: %w", err)
	}
	return raw, nil
}

func decodePackages(raw []byte) ([]*domain.Package, error) {
	var in []cachedPackage
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("package cache decode: %w", err)
	}
	out := make([]*domain.Package, 0, len(in))
	for _, c := range in {
		out = append(out, &domain.Package{
			ID:               c.ID,
			Name:             c.Name,
			Features:         c.Features,
			GeneralPrice:     c.GeneralPrice,
			PromotionalPrice: c.PromotionalPrice,
			IsActive:         c.IsActive,
			CreatedAt:        c.CreatedAt,
			UpdatedAt:        c.UpdatedAt,
		})
	}
	return out, nil
}
