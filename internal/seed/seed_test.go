package seed

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/hookahlab/gearscout/internal/storage"
	"github.com/hookahlab/gearscout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestProductsWellFormed(t *testing.T) {
	seen := make(map[types.ProductKey]bool)
	for _, p := range Products() {
		if p.Name == "" || p.Brand == "" {
			t.Errorf("seed product %+v missing name or brand", p)
		}
		if !p.Category.Valid() {
			t.Errorf("seed product %q has invalid category %q", p.Name, p.Category)
		}
		if len(p.CompatibilityTags) == 0 {
			t.Errorf("seed product %q has no compatibility tags", p.Name)
		}
		if seen[p.Key()] {
			t.Errorf("duplicate seed key %+v", p.Key())
		}
		seen[p.Key()] = true
	}
}

func TestLoadIdempotent(t *testing.T) {
	store := storage.NewMemoryStore(testLogger)
	ctx := context.Background()

	first, err := Load(ctx, store, testLogger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.Inserted != len(Products()) {
		t.Errorf("first load inserted %d, want %d", first.Inserted, len(Products()))
	}

	second, err := Load(ctx, store, testLogger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second.Inserted != 0 || second.Updated != len(Products()) {
		t.Errorf("second load = %+v, want pure update", second)
	}

	stats, _ := store.Stats(ctx)
	if stats.TotalProducts != len(Products()) {
		t.Errorf("TotalProducts = %d after reload", stats.TotalProducts)
	}
}
