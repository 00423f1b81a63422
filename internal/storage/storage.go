// Package storage provides the catalog store: product records keyed by
// (name, brand), user gear links, and the upsert-based merge the scraping
// pipeline writes through.
package storage

import (
	"context"
	"errors"

	"github.com/hookahlab/gearscout/internal/types"
)

// ErrNotFound is returned when a product ID has no record.
var ErrNotFound = errors.New("product not found")

// ProductFilter narrows a product listing. Zero fields match everything.
type ProductFilter struct {
	Category types.Category
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

// Stats summarizes the catalog.
type Stats struct {
	TotalProducts int `json:"total_products"`
	CategoryCount int `json:"category_count"`
	BrandCount    int `json:"brand_count"`
	SiteCount     int `json:"site_count"`
}

// CatalogStore is the interface for catalog store backends.
type CatalogStore interface {
	// Merge upserts a batch of normalized products by (name, brand).
	// New keys are inserted; existing rows keep name/brand/category/tags
	// and take the incoming mutable fields (price, image URL, product URL,
	// rating, review count) only when present. The batch commits
	// atomically: on failure the whole batch rolls back, the report is
	// zero, and a *types.MergeError is returned. Commits are serialized.
	Merge(ctx context.Context, products []types.Product) (types.MergeReport, error)

	// Products lists catalog records matching the filter.
	Products(ctx context.Context, filter ProductFilter) ([]types.Product, error)

	// ProductByID fetches one record, or ErrNotFound.
	ProductByID(ctx context.Context, id string) (types.Product, error)

	// Categories returns the distinct categories present in the catalog.
	Categories(ctx context.Context) ([]string, error)

	// Brands returns the distinct brands present in the catalog.
	Brands(ctx context.Context) ([]string, error)

	// Stats returns catalog-wide counts.
	Stats(ctx context.Context) (Stats, error)

	// UserGear returns the gear links for a user. The core only reads
	// these; the user-management layer owns them.
	UserGear(ctx context.Context, userID string) ([]types.GearLink, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// matches reports whether p passes the filter. Shared by backends that
// filter in process.
func (f ProductFilter) matches(p *types.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// applyMutable copies the incoming mutable fields onto an existing record,
// taking each value only when present. Name, brand, category, and tags are
// immutable once set, so noisy re-scrapes cannot oscillate classification.
func applyMutable(existing *types.Product, incoming *types.Product) {
	if incoming.Price > 0 {
		existing.Price = incoming.Price
	}
	if incoming.ImageURL != "" {
		existing.ImageURL = incoming.ImageURL
	}
	if incoming.ProductURL != "" {
		existing.ProductURL = incoming.ProductURL
	}
	if incoming.Rating > 0 {
		existing.Rating = incoming.Rating
	}
	if incoming.ReviewCount > 0 {
		existing.ReviewCount = incoming.ReviewCount
	}
}
