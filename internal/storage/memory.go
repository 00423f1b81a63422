package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hookahlab/gearscout/internal/types"
)

// MemoryStore is an in-process CatalogStore used for tests, seeding, and
// single-node runs without a database. Merge batches are staged on copies
// and swapped in whole, so a batch is either fully visible or not at all.
type MemoryStore struct {
	mu     sync.RWMutex
	byKey  map[types.ProductKey]*types.Product
	byID   map[string]*types.Product
	gear   map[string][]types.GearLink
	nextID int
	logger *slog.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		byKey:  make(map[types.ProductKey]*types.Product),
		byID:   make(map[string]*types.Product),
		gear:   make(map[string][]types.GearLink),
		logger: logger.With("component", "memory_store"),
	}
}

// Merge implements CatalogStore.
func (s *MemoryStore) Merge(ctx context.Context, products []types.Product) (types.MergeReport, error) {
	if err := ctx.Err(); err != nil {
		return types.MergeReport{}, &types.MergeError{Backend: "memory", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report types.MergeReport
	now := time.Now()

	// Stage on copies; commit by swapping pointers only after the whole
	// batch has applied cleanly. A key repeated within the batch updates
	// its own staged row, never a second insert.
	staged := make(map[types.ProductKey]*types.Product, len(products))
	for i := range products {
		incoming := products[i]
		key := incoming.Key()
		if prev, ok := staged[key]; ok {
			applyMutable(prev, &incoming)
			prev.UpdatedAt = now
			report.Updated++
			continue
		}
		if existing, ok := s.byKey[key]; ok {
			updated := *existing
			applyMutable(&updated, &incoming)
			updated.UpdatedAt = now
			staged[key] = &updated
			report.Updated++
			continue
		}
		s.nextID++
		incoming.ID = fmt.Sprintf("mem-%08d", s.nextID)
		incoming.CreatedAt = now
		incoming.UpdatedAt = now
		staged[key] = &incoming
		report.Inserted++
	}

	for _, p := range staged {
		s.byKey[p.Key()] = p
		s.byID[p.ID] = p
	}

	s.logger.Debug("merge committed", "inserted", report.Inserted, "updated", report.Updated)
	return report, nil
}

// Products implements CatalogStore.
func (s *MemoryStore) Products(ctx context.Context, filter ProductFilter) ([]types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Product, 0, len(s.byID))
	for _, p := range s.byID {
		if filter.matches(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ProductByID implements CatalogStore.
func (s *MemoryStore) ProductByID(ctx context.Context, id string) (types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return types.Product{}, ErrNotFound
	}
	return *p, nil
}

// Categories implements CatalogStore.
func (s *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(func(p *types.Product) string { return string(p.Category) }), nil
}

// Brands implements CatalogStore.
func (s *MemoryStore) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(func(p *types.Product) string { return p.Brand }), nil
}

// Stats implements CatalogStore.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[types.Category]bool)
	brands := make(map[string]bool)
	sites := make(map[string]bool)
	for _, p := range s.byID {
		categories[p.Category] = true
		brands[p.Brand] = true
		sites[p.SourceSite] = true
	}

	return Stats{
		TotalProducts: len(s.byID),
		CategoryCount: len(categories),
		BrandCount:    len(brands),
		SiteCount:     len(sites),
	}, nil
}

// UserGear implements CatalogStore.
func (s *MemoryStore) UserGear(ctx context.Context, userID string) ([]types.GearLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.GearLink(nil), s.gear[userID]...), nil
}

// AddUserGear links a product to a user's collection. Used by seeding and
// tests; the production writer is the user-management layer.
func (s *MemoryStore) AddUserGear(userID, gearID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gear[userID] = append(s.gear[userID], types.GearLink{
		UserID:  userID,
		GearID:  gearID,
		AddedAt: time.Now(),
	})
}

// Close implements CatalogStore.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) distinct(key func(*types.Product) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, p := range s.byID {
		if k := key(p); k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
