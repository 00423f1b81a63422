// Package normalize turns raw listing tuples into canonical product
// records. Every rule here is pure and order-sensitive: the same raw
// listing always normalizes to the identical product, and each inference
// cascade is an explicit first-match-wins rule list so the priority order
// can be tested on its own.
package normalize

import (
	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/types"
)

// Listing builds a canonical Product from one extracted listing. current is
// the scraping-category context for the page the listing came from; it is
// threaded through explicitly and overrides all category inference when set.
func Listing(raw types.RawListing, site sites.Config, current types.Category) types.Product {
	category := CategoryOf(raw.Name, raw.ProductURL, current)
	return types.Product{
		Name:              raw.Name,
		Brand:             Brand(raw.Name, site.DefaultBrand),
		Category:          category,
		Price:             Price(raw.PriceText),
		ImageURL:          raw.ImageURL,
		ProductURL:        raw.ProductURL,
		Rating:            Rating(raw.RatingText),
		CompatibilityTags: Tags(raw.Name, category),
		SourceSite:        site.ID,
	}
}
