package extractor

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/types"
)

// CSSExtractor extracts listings using CSS selectors via goquery.
type CSSExtractor struct {
	logger *slog.Logger
}

// NewCSSExtractor creates a new CSS selector extractor.
func NewCSSExtractor(logger *slog.Logger) *CSSExtractor {
	return &CSSExtractor{
		logger: logger.With("component", "css_extractor"),
	}
}

// Extract implements Extractor.
func (e *CSSExtractor) Extract(body []byte, site sites.Config, pageURL string) (*PageReport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ExtractError{Site: site.ID, URL: pageURL, Err: err}
	}

	report := &PageReport{}

	doc.Find(site.Selectors.Product).Each(func(i int, sel *goquery.Selection) {
		listing, skip := e.extractElement(sel, site)
		if skip != "" {
			report.Skipped = append(report.Skipped, Skip{Index: i, Reason: skip})
			e.logger.Debug("element skipped", "site", site.ID, "url", pageURL, "index", i, "reason", skip)
			return
		}
		report.Listings = append(report.Listings, listing)
	})

	e.logger.Debug("page extracted",
		"site", site.ID,
		"url", pageURL,
		"listings", len(report.Listings),
		"skipped", len(report.Skipped),
	)

	return report, nil
}

// extractElement pulls the field selectors out of one product element.
// Every field except name tolerates absence.
func (e *CSSExtractor) extractElement(sel *goquery.Selection, site sites.Config) (types.RawListing, string) {
	name := strings.TrimSpace(sel.Find(site.Selectors.Name).First().Text())
	if name == "" {
		return types.RawListing{}, types.ErrMissingName.Error()
	}

	priceText := defaultPriceText
	if site.Selectors.Price != "" {
		if t := strings.TrimSpace(sel.Find(site.Selectors.Price).First().Text()); t != "" {
			priceText = t
		}
	}

	var imageURL string
	if site.Selectors.Image != "" {
		img := sel.Find(site.Selectors.Image).First()
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			src, _ = img.Attr("data-src")
		}
		imageURL = resolveURL(site.BaseURL, src)
	}

	var productURL string
	if site.Selectors.Link != "" {
		href, _ := sel.Find(site.Selectors.Link).First().Attr("href")
		productURL = resolveURL(site.BaseURL, href)
	}

	var ratingText string
	if site.Selectors.Rating != "" {
		ratingText = strings.TrimSpace(sel.Find(site.Selectors.Rating).First().Text())
	}

	return types.RawListing{
		Name:       name,
		PriceText:  priceText,
		ImageURL:   imageURL,
		ProductURL: productURL,
		RatingText: ratingText,
	}, ""
}
