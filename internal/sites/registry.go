// Package sites holds the static per-site scraping configuration: fetch
// endpoints, selectors, and category URL maps. The registry is loaded once
// at process start and never mutated; adding a site means adding a config
// entry, not touching extraction logic.
package sites

import (
	"fmt"
	"sort"

	"github.com/hookahlab/gearscout/internal/types"
)

// Selector types supported by the listing extractor.
const (
	SelectorCSS   = "css"
	SelectorXPath = "xpath"
)

// Selectors locates the repeated product element and its fields within a
// listing page. Name is required at extraction time; the rest are optional.
type Selectors struct {
	Product string `mapstructure:"product"`
	Name    string `mapstructure:"name"`
	Price   string `mapstructure:"price"`
	Image   string `mapstructure:"image"`
	Link    string `mapstructure:"link"`
	Rating  string `mapstructure:"rating"`
}

// Config describes one scrapable site. Immutable after registry load.
type Config struct {
	ID           string
	BaseURL      string
	ListingURL   string
	CategoryURLs map[types.Category]string
	Selectors    Selectors
	SelectorType string
	DefaultBrand string
}

// CategoryURL returns the listing URL for a category, if the site has one.
func (c Config) CategoryURL(cat types.Category) (string, bool) {
	u, ok := c.CategoryURLs[cat]
	return u, ok
}

// PageURL appends pagination to a listing URL. Page 1 is the bare URL.
func (c Config) PageURL(listingURL string, page int) string {
	if page <= 1 {
		return listingURL
	}
	return fmt.Sprintf("%s?page=%d", listingURL, page)
}

func (c Config) clone() Config {
	urls := make(map[types.Category]string, len(c.CategoryURLs))
	for k, v := range c.CategoryURLs {
		urls[k] = v
	}
	c.CategoryURLs = urls
	return c
}

// Registry maps site IDs to their configs.
type Registry struct {
	sites map[string]Config
}

// NewRegistry builds a registry from the built-in sites plus any extras from
// the config file. An extra with a built-in's ID replaces it.
func NewRegistry(extra ...Config) (*Registry, error) {
	r := &Registry{sites: make(map[string]Config)}
	for _, c := range append(builtinSites(), extra...) {
		if err := validate(c); err != nil {
			return nil, err
		}
		if c.SelectorType == "" {
			c.SelectorType = SelectorCSS
		}
		r.sites[c.ID] = c.clone()
	}
	return r, nil
}

// Get looks up a site config by ID. The returned config is a copy.
func (r *Registry) Get(id string) (Config, error) {
	c, ok := r.sites[id]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", types.ErrUnknownSite, id)
	}
	return c.clone(), nil
}

// IDs returns all registered site IDs, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sites))
	for id := range r.sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered sites.
func (r *Registry) Len() int { return len(r.sites) }

func validate(c Config) error {
	if c.ID == "" {
		return fmt.Errorf("site config missing id")
	}
	if c.BaseURL == "" || c.ListingURL == "" {
		return fmt.Errorf("site %q: base_url and listing_url are required", c.ID)
	}
	if c.Selectors.Product == "" || c.Selectors.Name == "" {
		return fmt.Errorf("site %q: product and name selectors are required", c.ID)
	}
	if t := c.SelectorType; t != "" && t != SelectorCSS && t != SelectorXPath {
		return fmt.Errorf("site %q: selector_type must be %q or %q, got %q",
			c.ID, SelectorCSS, SelectorXPath, t)
	}
	for cat := range c.CategoryURLs {
		if !cat.Valid() {
			return fmt.Errorf("site %q: %w: %q", c.ID, types.ErrUnknownCategory, cat)
		}
	}
	return nil
}

// builtinSites returns the shipped site table.
func builtinSites() []Config {
	return []Config{
		{
			ID:         "southsmoke",
			BaseURL:    "https://www.southsmoke.com",
			ListingURL: "https://www.southsmoke.com/hookahs",
			CategoryURLs: map[types.Category]string{
				types.CategoryHookah: "https://www.southsmoke.com/hookahs",
				types.CategoryBowl:   "https://www.southsmoke.com/bowls",
				types.CategoryHose:   "https://www.southsmoke.com/hoses",
				types.CategoryHMD:    "https://www.southsmoke.com/heat-management",
			},
			Selectors: Selectors{
				Product: ".product-item",
				Name:    ".product-name",
				Price:   ".price",
				Image:   ".product-image img",
				Link:    ".product-name a",
				Rating:  ".rating",
			},
			SelectorType: SelectorCSS,
			DefaultBrand: "SouthSmoke",
		},
		{
			ID:         "5starhookah",
			BaseURL:    "https://5starhookah.com",
			ListingURL: "https://5starhookah.com/collections/all-hookahs",
			CategoryURLs: map[types.Category]string{
				types.CategoryHookah: "https://5starhookah.com/collections/all-hookahs",
				types.CategoryBowl:   "https://5starhookah.com/collections/all-hookah-bowls",
				// No dedicated hose/hmd collections; accessories carries both.
				types.CategoryHose:      "https://5starhookah.com/collections/all-accessories",
				types.CategoryHMD:       "https://5starhookah.com/collections/all-accessories",
				types.CategoryTobacco:   "https://5starhookah.com/collections/all-shisha",
				types.CategoryCoal:      "https://5starhookah.com/collections/all-charcoals",
				types.CategoryAccessory: "https://5starhookah.com/collections/all-accessories",
			},
			Selectors: Selectors{
				Product: ".product-item, .product, .grid-product, .product-card",
				Name:    ".product-title, .grid-product__title, .product-name, .product-card__title, .mt5",
				Price:   ".price, .grid-product__price, .product-price, .product-card__price",
				Image:   ".product-image img, .grid-product__image img, .product-img img, .product-card__image img",
				Link:    ".product-title a, .grid-product__title a, .product-name a, .product-card__title a, a",
				Rating:  ".rating, .product-rating",
			},
			SelectorType: SelectorCSS,
			DefaultBrand: "5StarHookah",
		},
		{
			ID:         "sobehookah",
			BaseURL:    "https://www.sobehookah.com",
			ListingURL: "https://www.sobehookah.com/collections/store/Hookah",
			CategoryURLs: map[types.Category]string{
				types.CategoryHookah: "https://www.sobehookah.com/collections/store/Hookah",
				types.CategoryBowl:   "https://www.sobehookah.com/collections/store/Bowl",
				types.CategoryHose:   "https://www.sobehookah.com/collections/store/Hose",
				types.CategoryHMD:    "https://www.sobehookah.com/collections/store/Heat-Management",
			},
			Selectors: Selectors{
				Product: ".product-item",
				Name:    ".product-name",
				Price:   ".price",
				Image:   ".product-image img",
				Link:    ".product-name a",
				Rating:  ".rating",
			},
			SelectorType: SelectorCSS,
			DefaultBrand: "SobeHookah",
		},
	}
}
