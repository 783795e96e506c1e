package domain

import (
	"strings"
	"time"
)

// Package is a bookable service package in the catalog.
type Package struct {
	ID               string
	Name             string
	Features         string
	GeneralPrice     float64
	PromotionalPrice float64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizePackageName returns the canonical, unique form of a package name.
func NormalizePackageName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
