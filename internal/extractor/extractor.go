// Package extractor turns raw listing markup into RawListing tuples using a
// site's configured selectors. Extraction is pure: the same markup always
// yields the same report, and a failing element is recorded as a skip
// instead of aborting the page.
package extractor

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/types"
)

// Skip records a product element that could not be extracted.
type Skip struct {
	// Index is the element's position among the page's container matches.
	Index int

	// Reason describes why the element was skipped.
	Reason string
}

// PageReport is the outcome of extracting one page.
type PageReport struct {
	Listings []types.RawListing
	Skipped  []Skip
}

// Extractor extracts raw listings from one page of markup.
type Extractor interface {
	// Extract locates the site's product elements in body and extracts a
	// RawListing per element. pageURL is used for logging only; relative
	// image/link URLs resolve against the site's base URL.
	Extract(body []byte, site sites.Config, pageURL string) (*PageReport, error)
}

// ForSite returns the extractor matching the site's selector type.
func ForSite(site sites.Config, logger *slog.Logger) Extractor {
	if site.SelectorType == sites.SelectorXPath {
		return NewXPathExtractor(logger)
	}
	return NewCSSExtractor(logger)
}

// resolveURL makes raw absolute against base. Already-absolute URLs pass
// through; unparseable values resolve to empty.
func resolveURL(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// defaultPriceText stands in when a product element has no price node.
const defaultPriceText = "$0.00"
