// Package seed loads a small starter catalog so the API and
// recommendation endpoints have data before the first scrape run.
package seed

import (
	"context"
	"log/slog"

	"github.com/hookahlab/gearscout/internal/types"
)

// Merger is the store surface seeding needs.
type Merger interface {
	Merge(ctx context.Context, products []types.Product) (types.MergeReport, error)
}

// Products returns the starter catalog. Seeding goes through Merge, so
// repeated runs update rather than duplicate.
func Products() []types.Product {
	return []types.Product{
		{
			Name:              "Khalil Mamoon Classic",
			Brand:             "Khalil Mamoon",
			Category:          types.CategoryHookah,
			Price:             89.99,
			ImageURL:          "https://example.com/km-classic.jpg",
			ProductURL:        "https://example.com/km-classic",
			Rating:            4.5,
			ReviewCount:       127,
			CompatibilityTags: []string{"standard_hose", "egyptian_bowl", "wide_base"},
			SourceSite:        "seed",
		},
		{
			Name:              "Shika Hookah",
			Brand:             "Shika",
			Category:          types.CategoryHookah,
			Price:             149.99,
			ImageURL:          "https://example.com/shika-v4.jpg",
			ProductURL:        "https://example.com/shika-v4",
			Rating:            4.7,
			ReviewCount:       89,
			CompatibilityTags: []string{"modern_hose", "phunnel_bowl", "wide_base", "multi_port"},
			SourceSite:        "seed",
		},
		{
			Name:              "Kaloud Lotus Bowl",
			Brand:             "Kaloud",
			Category:          types.CategoryBowl,
			Price:             34.99,
			ImageURL:          "https://example.com/kaloud-lotus.jpg",
			ProductURL:        "https://example.com/kaloud-lotus",
			Rating:            4.8,
			ReviewCount:       234,
			CompatibilityTags: []string{"kaloud_lotus_hmd", "ceramic", "heat_management"},
			SourceSite:        "seed",
		},
		{
			Name:              "Egyptian Clay Bowl",
			Brand:             "Traditional",
			Category:          types.CategoryBowl,
			Price:             12.99,
			ImageURL:          "https://example.com/egyptian-bowl.jpg",
			ProductURL:        "https://example.com/egyptian-bowl",
			Rating:            4.2,
			ReviewCount:       156,
			CompatibilityTags: []string{"traditional", "clay", "foil"},
			SourceSite:        "seed",
		},
		{
			Name:              "Kaloud Lotus 1+",
			Brand:             "Kaloud",
			Category:          types.CategoryHMD,
			Price:             89.99,
			ImageURL:          "https://example.com/kaloud-lotus-hmd.jpg",
			ProductURL:        "https://example.com/kaloud-lotus-hmd",
			Rating:            4.9,
			ReviewCount:       445,
			CompatibilityTags: []string{"kaloud_lotus_bowl", "stainless_steel", "temperature_control"},
			SourceSite:        "seed",
		},
		{
			Name:              "Provost Heat Management",
			Brand:             "Provost",
			Category:          types.CategoryHMD,
			Price:             24.99,
			ImageURL:          "https://example.com/provost-hmd.jpg",
			ProductURL:        "https://example.com/provost-hmd",
			Rating:            4.6,
			ReviewCount:       178,
			CompatibilityTags: []string{"foil_compatible", "traditional_bowl", "stainless_steel"},
			SourceSite:        "seed",
		},
		{
			Name:              "D-Hose Aluminum",
			Brand:             "D-Hose",
			Category:          types.CategoryHose,
			Price:             39.99,
			ImageURL:          "https://example.com/dhose-aluminum.jpg",
			ProductURL:        "https://example.com/dhose-aluminum",
			Rating:            4.7,
			ReviewCount:       203,
			CompatibilityTags: []string{"washable", "silicone", "modern_hookah"},
			SourceSite:        "seed",
		},
		{
			Name:              "Traditional Leather Hose",
			Brand:             "Traditional",
			Category:          types.CategoryHose,
			Price:             19.99,
			ImageURL:          "https://example.com/leather-hose.jpg",
			ProductURL:        "https://example.com/leather-hose",
			Rating:            4.1,
			ReviewCount:       92,
			CompatibilityTags: []string{"traditional", "leather", "egyptian_hookah"},
			SourceSite:        "seed",
		},
	}
}

// Load merges the starter catalog into the store.
func Load(ctx context.Context, store Merger, logger *slog.Logger) (types.MergeReport, error) {
	report, err := store.Merge(ctx, Products())
	if err != nil {
		return types.MergeReport{}, err
	}
	logger.Info("seed catalog loaded", "inserted", report.Inserted, "updated", report.Updated)
	return report, nil
}
