package types

// RawListing is the per-element extraction result before normalization:
// whatever text and attributes the site's selectors yielded, untouched.
type RawListing struct {
	// Name is the product title text. Always non-empty; elements without a
	// name are skipped at extraction time.
	Name string

	// PriceText is the raw price string, e.g. "$24.99" or "Free".
	PriceText string

	// ImageURL is the absolute image URL, or empty.
	ImageURL string

	// ProductURL is the absolute listing URL, or empty.
	ProductURL string

	// RatingText is the raw rating string, e.g. "4.5 stars", or empty.
	RatingText string
}
