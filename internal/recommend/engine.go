// Package recommend ranks catalog products for a user by compatibility-tag
// overlap with gear they already own, falling back to popularity when the
// user owns nothing and backfilling thin results from categories the user
// has no gear in.
//
// The package reads the catalog through its own Store interface so it has
// no dependency on the storage backend.
package recommend

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hookahlab/gearscout/internal/types"
)

// Recommendation modes.
const (
	// ModePopular marks results produced by the popularity fallback for
	// users with no owned gear.
	ModePopular = "popular"

	// ModeCompatible marks results produced by tag-overlap matching.
	ModeCompatible = "compatible"
)

// Result caps.
const (
	primaryLimit  = 20 // tag-overlap candidates considered
	backfillBelow = 10 // backfill kicks in under this many primaries
	backfillLimit = 10 // popular records added by backfill
	finalLimit    = 15 // overall result cap
	popularLimit  = 10 // popularity fallback size
	categoryLimit = 10 // per-category variant cap
)

// Store is the catalog read surface the engine needs.
type Store interface {
	// UserGear returns the user's owned-gear links.
	UserGear(ctx context.Context, userID string) ([]types.GearLink, error)

	// AllProducts returns every catalog record.
	AllProducts(ctx context.Context) ([]types.Product, error)
}

// Response is an ordered recommendation result.
type Response struct {
	Mode  string          `json:"mode"`
	Items []types.Product `json:"items"`
	Count int             `json:"count"`
}

// Engine computes recommendations. It only reads; it is safe for
// concurrent use and completes in time proportional to catalog size.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine creates a recommendation engine over the given store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With("component", "recommend"),
	}
}

// Recommend returns ranked recommendations for a user. category, when
// non-empty, restricts the tag-overlap candidates; the popularity backfill
// still draws from all unowned categories.
func (e *Engine) Recommend(ctx context.Context, userID string, category types.Category) (*Response, error) {
	owned, catalog, err := e.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(owned) == 0 {
		items := topByRating(catalog, nil, "", popularLimit)
		return &Response{Mode: ModePopular, Items: items, Count: len(items)}, nil
	}

	ownedIDs, ownedTags, ownedCategories := ownedProfile(owned, catalog)

	primary := tagOverlap(catalog, ownedIDs, ownedTags, category, primaryLimit)

	candidates := primary
	if len(primary) < backfillBelow {
		// Not enough compatible gear; suggest popular items from
		// categories the user has nothing in yet.
		backfill := popularOutsideCategories(catalog, ownedIDs, ownedCategories, backfillLimit)
		candidates = append(candidates, backfill...)
	}

	items := dedupeByID(candidates, finalLimit)

	e.logger.Debug("recommendations computed",
		"user", userID,
		"owned", len(owned),
		"primary", len(primary),
		"final", len(items),
	)

	return &Response{Mode: ModeCompatible, Items: items, Count: len(items)}, nil
}

// RecommendCategory returns recommendations restricted to one category.
// It applies the same tag filtering but never backfills, and caps the
// result lower.
func (e *Engine) RecommendCategory(ctx context.Context, userID string, category types.Category) (*Response, error) {
	owned, catalog, err := e.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownedIDs, ownedTags, _ := ownedProfile(owned, catalog)

	var items []types.Product
	if len(ownedTags) > 0 {
		items = tagOverlap(catalog, ownedIDs, ownedTags, category, categoryLimit)
		return &Response{Mode: ModeCompatible, Items: items, Count: len(items)}, nil
	}

	items = topByRating(catalog, ownedIDs, category, categoryLimit)
	return &Response{Mode: ModePopular, Items: items, Count: len(items)}, nil
}

func (e *Engine) load(ctx context.Context, userID string) ([]types.GearLink, []types.Product, error) {
	owned, err := e.store.UserGear(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := e.store.AllProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return owned, catalog, nil
}

// ownedProfile builds the owned-ID set, the union of compatibility tags
// across owned records, and the set of categories the user owns gear in.
func ownedProfile(owned []types.GearLink, catalog []types.Product) (map[string]bool, map[string]bool, map[types.Category]bool) {
	ownedIDs := make(map[string]bool, len(owned))
	for _, link := range owned {
		ownedIDs[link.GearID] = true
	}

	ownedTags := make(map[string]bool)
	ownedCategories := make(map[types.Category]bool)
	for i := range catalog {
		p := &catalog[i]
		if !ownedIDs[p.ID] {
			continue
		}
		ownedCategories[p.Category] = true
		for _, t := range p.CompatibilityTags {
			ownedTags[t] = true
		}
	}

	return ownedIDs, ownedTags, ownedCategories
}

// tagOverlap selects unowned records whose tags intersect the owned-tag
// union, optionally restricted to one category, ordered by rating.
func tagOverlap(catalog []types.Product, ownedIDs, ownedTags map[string]bool, category types.Category, limit int) []types.Product {
	if len(ownedTags) == 0 {
		return nil
	}

	var out []types.Product
	for i := range catalog {
		p := &catalog[i]
		if ownedIDs[p.ID] {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if p.HasAnyTag(ownedTags) {
			out = append(out, *p)
		}
	}

	sortByRating(out)
	return truncate(out, limit)
}

// popularOutsideCategories selects top-rated unowned records from
// categories the user owns nothing in.
func popularOutsideCategories(catalog []types.Product, ownedIDs map[string]bool, ownedCategories map[types.Category]bool, limit int) []types.Product {
	var out []types.Product
	for i := range catalog {
		p := &catalog[i]
		if ownedIDs[p.ID] || ownedCategories[p.Category] {
			continue
		}
		out = append(out, *p)
	}

	sortByRating(out)
	return truncate(out, limit)
}

// topByRating selects the highest-rated records, excluding owned IDs and
// optionally restricted to one category.
func topByRating(catalog []types.Product, ownedIDs map[string]bool, category types.Category, limit int) []types.Product {
	var out []types.Product
	for i := range catalog {
		p := &catalog[i]
		if ownedIDs != nil && ownedIDs[p.ID] {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}

	sortByRating(out)
	return truncate(out, limit)
}

// sortByRating orders by rating descending, breaking ties by review count
// descending and then identifier ascending so results are deterministic.
func sortByRating(products []types.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		if products[i].ReviewCount != products[j].ReviewCount {
			return products[i].ReviewCount > products[j].ReviewCount
		}
		return products[i].ID < products[j].ID
	})
}

// dedupeByID keeps the first occurrence of each identifier, preserving
// order, up to limit entries.
func dedupeByID(products []types.Product, limit int) []types.Product {
	seen := make(map[string]bool, len(products))
	out := make([]types.Product, 0, limit)
	for i := range products {
		if len(out) >= limit {
			break
		}
		if seen[products[i].ID] {
			continue
		}
		seen[products[i].ID] = true
		out = append(out, products[i])
	}
	return out
}

func truncate(products []types.Product, limit int) []types.Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
