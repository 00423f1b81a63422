package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/hookahlab/gearscout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeStore is an in-test Store with fixed data.
type fakeStore struct {
	gear     map[string][]types.GearLink
	products []types.Product
	err      error
}

func (f *fakeStore) UserGear(ctx context.Context, userID string) ([]types.GearLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gear[userID], nil
}

func (f *fakeStore) AllProducts(ctx context.Context) ([]types.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func p(id, name string, category types.Category, rating float64, reviews int, tags ...string) types.Product {
	return types.Product{
		ID: id, Name: name, Category: category,
		Rating: rating, ReviewCount: reviews,
		CompatibilityTags: tags,
	}
}

func owns(ids ...string) []types.GearLink {
	links := make([]types.GearLink, len(ids))
	for i, id := range ids {
		links[i] = types.GearLink{UserID: "1", GearID: id}
	}
	return links
}

func engine(store Store) *Engine { return NewEngine(store, testLogger) }

func TestRecommendPopularFallback(t *testing.T) {
	store := &fakeStore{products: []types.Product{
		p("a", "KM Classic", types.CategoryHookah, 4.5, 100),
		p("b", "Lotus Bowl", types.CategoryBowl, 4.8, 200),
		p("c", "Cheap Hose", types.CategoryHose, 3.0, 10),
	}}

	resp, err := engine(store).Recommend(context.Background(), "1", "")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Mode != ModePopular {
		t.Errorf("Mode = %q, want popular", resp.Mode)
	}
	if resp.Count != 3 || len(resp.Items) != 3 {
		t.Fatalf("Count = %d, Items = %d", resp.Count, len(resp.Items))
	}
	if resp.Items[0].ID != "b" || resp.Items[1].ID != "a" || resp.Items[2].ID != "c" {
		t.Errorf("order = %v, want rating descending", ids(resp.Items))
	}
}

func TestRecommendPopularCap(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 25; i++ {
		store.products = append(store.products,
			p(fmt.Sprintf("p%02d", i), fmt.Sprintf("Item %d", i), types.CategoryHookah, 4.0, i))
	}

	resp, _ := engine(store).Recommend(context.Background(), "1", "")
	if len(resp.Items) != popularLimit {
		t.Errorf("got %d items, want popular cap %d", len(resp.Items), popularLimit)
	}
}

func TestRecommendTagOverlap(t *testing.T) {
	store := &fakeStore{
		gear: map[string][]types.GearLink{"1": owns("owned")},
		products: []types.Product{
			p("owned", "KM Classic", types.CategoryHookah, 4.5, 100, "egyptian_hookah", "traditional"),
			p("match1", "Leather Hose", types.CategoryHose, 4.1, 90, "traditional", "leather"),
			p("match2", "Clay Bowl", types.CategoryBowl, 4.2, 150, "traditional", "clay"),
			p("nomatch", "Silicone Hose", types.CategoryHose, 4.7, 200, "washable", "silicone"),
		},
	}

	resp, err := engine(store).Recommend(context.Background(), "1", "")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Mode != ModeCompatible {
		t.Errorf("Mode = %q, want compatible", resp.Mode)
	}

	got := ids(resp.Items)
	for _, id := range got {
		if id == "owned" {
			t.Error("owned gear recommended back to its owner")
		}
	}
	if !contains(got, "match1") || !contains(got, "match2") {
		t.Errorf("tag matches missing from %v", got)
	}
	// nomatch shares no tags but backfill may still add it from an
	// unowned category; it must rank by rating among backfill, not
	// displace tag matches.
	if got[0] != "match2" || got[1] != "match1" {
		t.Errorf("primary order = %v, want tag matches first by rating", got[:2])
	}
}

func TestRecommendBackfillFromUnownedCategories(t *testing.T) {
	store := &fakeStore{
		gear: map[string][]types.GearLink{"1": owns("owned")},
		products: []types.Product{
			p("owned", "KM Classic", types.CategoryHookah, 4.5, 100, "rare_tag"),
			p("hookah2", "Shika V4", types.CategoryHookah, 4.7, 89, "modern_hookah"),
			p("bowl1", "Lotus Bowl", types.CategoryBowl, 4.8, 234, "ceramic"),
			p("hose1", "Leather Hose", types.CategoryHose, 4.1, 92, "leather"),
		},
	}

	resp, _ := engine(store).Recommend(context.Background(), "1", "")
	got := ids(resp.Items)

	// No tag overlaps exist, so everything comes from backfill, which
	// skips the hookah category the user already owns gear in.
	if contains(got, "hookah2") {
		t.Errorf("backfill drew from an owned category: %v", got)
	}
	if !contains(got, "bowl1") || !contains(got, "hose1") {
		t.Errorf("backfill missing unowned categories: %v", got)
	}
	if got[0] != "bowl1" {
		t.Errorf("backfill order = %v, want rating descending", got)
	}
}

func TestRecommendFinalCapAndDedupe(t *testing.T) {
	store := &fakeStore{gear: map[string][]types.GearLink{"1": owns("owned")}}
	store.products = append(store.products,
		p("owned", "Owned Hookah", types.CategoryHookah, 4.0, 1, "shared_tag"))
	for i := 0; i < 30; i++ {
		store.products = append(store.products,
			p(fmt.Sprintf("m%02d", i), fmt.Sprintf("Match %d", i), types.CategoryBowl, 4.0, i, "shared_tag"))
	}

	resp, _ := engine(store).Recommend(context.Background(), "1", "")
	if len(resp.Items) != finalLimit {
		t.Errorf("got %d items, want final cap %d", len(resp.Items), finalLimit)
	}

	seen := map[string]bool{}
	for _, item := range resp.Items {
		if seen[item.ID] {
			t.Errorf("duplicate ID %q in results", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestRecommendCategoryRestriction(t *testing.T) {
	store := &fakeStore{
		gear: map[string][]types.GearLink{"1": owns("owned")},
		products: []types.Product{
			p("owned", "KM Classic", types.CategoryHookah, 4.5, 100, "traditional"),
			p("hose1", "Leather Hose", types.CategoryHose, 4.1, 92, "traditional"),
			p("bowl1", "Clay Bowl", types.CategoryBowl, 4.2, 150, "traditional"),
		},
	}

	resp, err := engine(store).RecommendCategory(context.Background(), "1", types.CategoryHose)
	if err != nil {
		t.Fatalf("RecommendCategory: %v", err)
	}
	if resp.Mode != ModeCompatible {
		t.Errorf("Mode = %q, want compatible", resp.Mode)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "hose1" {
		t.Errorf("items = %v, want only the hose", ids(resp.Items))
	}
}

func TestRecommendCategoryCap(t *testing.T) {
	store := &fakeStore{gear: map[string][]types.GearLink{"1": owns("owned")}}
	store.products = append(store.products,
		p("owned", "Owned Hookah", types.CategoryHookah, 4.0, 1, "shared_tag"))
	for i := 0; i < 20; i++ {
		store.products = append(store.products,
			p(fmt.Sprintf("b%02d", i), fmt.Sprintf("Bowl %d", i), types.CategoryBowl, 4.0, i, "shared_tag"))
	}

	resp, err := engine(store).RecommendCategory(context.Background(), "1", types.CategoryBowl)
	if err != nil {
		t.Fatalf("RecommendCategory: %v", err)
	}
	if resp.Mode != ModeCompatible {
		t.Errorf("Mode = %q, want compatible", resp.Mode)
	}
	if len(resp.Items) != categoryLimit {
		t.Errorf("got %d items, want per-category cap %d", len(resp.Items), categoryLimit)
	}
}

func TestRecommendCategoryPopularForNewUser(t *testing.T) {
	store := &fakeStore{products: []types.Product{
		p("bowl1", "Lotus Bowl", types.CategoryBowl, 4.8, 234, "ceramic"),
		p("bowl2", "Clay Bowl", types.CategoryBowl, 4.2, 150, "clay"),
		p("hose1", "Leather Hose", types.CategoryHose, 4.1, 92, "leather"),
	}}

	resp, _ := engine(store).RecommendCategory(context.Background(), "1", types.CategoryBowl)
	if resp.Mode != ModePopular {
		t.Errorf("Mode = %q, want popular for user with no gear", resp.Mode)
	}
	got := ids(resp.Items)
	if len(got) != 2 || got[0] != "bowl1" {
		t.Errorf("items = %v, want bowls by rating", got)
	}
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	store := &fakeStore{products: []types.Product{
		p("z", "Third", types.CategoryHookah, 4.0, 50),
		p("a", "First", types.CategoryHookah, 4.0, 50),
		p("m", "Second", types.CategoryHookah, 4.0, 99),
	}}

	resp, _ := engine(store).Recommend(context.Background(), "1", "")
	got := ids(resp.Items)
	// Review count breaks the rating tie, then ID ascending.
	want := []string{"m", "a", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRecommendStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("backend down")}
	if _, err := engine(store).Recommend(context.Background(), "1", ""); err == nil {
		t.Error("Recommend swallowed store error")
	}
}

func ids(products []types.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
