package types

import (
	"time"
)

// Category classifies a product within the catalog.
type Category string

const (
	CategoryHookah    Category = "hookah"
	CategoryBowl      Category = "bowl"
	CategoryHose      Category = "hose"
	CategoryHMD       Category = "hmd"
	CategoryTobacco   Category = "tobacco"
	CategoryCoal      Category = "coal"
	CategoryAccessory Category = "accessory"
)

// Categories returns all known categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryHookah,
		CategoryBowl,
		CategoryHose,
		CategoryHMD,
		CategoryTobacco,
		CategoryCoal,
		CategoryAccessory,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHookah, CategoryBowl, CategoryHose, CategoryHMD,
		CategoryTobacco, CategoryCoal, CategoryAccessory:
		return true
	}
	return false
}

// UnknownBrand is the sentinel brand for products whose brand could not be
// resolved by any inference tier.
const UnknownBrand = "Unknown"

// Product is a canonical catalog record.
type Product struct {
	// ID is the store-assigned identifier.
	ID string `bson:"_id,omitempty" json:"id"`

	// Name is the human-readable product title.
	Name string `bson:"name" json:"name"`

	// Brand is the inferred manufacturer, or UnknownBrand.
	Brand string `bson:"brand" json:"brand"`

	// Category classifies the product.
	Category Category `bson:"category" json:"category"`

	// Price in the site's currency; 0 when it could not be parsed.
	Price float64 `bson:"price" json:"price"`

	// ImageURL and ProductURL are absolute URLs when known.
	ImageURL   string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ProductURL string `bson:"product_url,omitempty" json:"product_url,omitempty"`

	// Rating is the listing rating in [0, 5].
	Rating float64 `bson:"rating" json:"rating"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `bson:"review_count" json:"review_count"`

	// CompatibilityTags are semantic labels used for cross-item matching,
	// e.g. "egyptian_hookah" or "heat_management". Treated as a set.
	CompatibilityTags []string `bson:"compatibility_tags" json:"compatibility_tags"`

	// SourceSite identifies which site the record was scraped from.
	SourceSite string `bson:"source_site" json:"source_site"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ProductKey is the natural merge key for catalog records. No two stored
// records may share the same key.
type ProductKey struct {
	Name  string
	Brand string
}

// Key returns the product's natural merge key.
func (p *Product) Key() ProductKey {
	return ProductKey{Name: p.Name, Brand: p.Brand}
}

// HasAnyTag reports whether any of the product's compatibility tags is
// present in the given tag set.
func (p *Product) HasAnyTag(tags map[string]bool) bool {
	for _, t := range p.CompatibilityTags {
		if tags[t] {
			return true
		}
	}
	return false
}

// MergeReport summarizes a catalog merge batch.
type MergeReport struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// GearLink associates a user with a product they own. It is created by the
// user-management layer; the core only reads it.
type GearLink struct {
	UserID  string    `bson:"user_id" json:"user_id"`
	GearID  string    `bson:"gear_id" json:"gear_id"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}
