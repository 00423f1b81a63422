package extractor

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/types"
)

// XPathExtractor extracts listings using XPath expressions, for sites whose
// config declares selector_type xpath. Field selectors are evaluated
// relative to each product node.
type XPathExtractor struct {
	logger *slog.Logger
}

// NewXPathExtractor creates a new XPath extractor.
func NewXPathExtractor(logger *slog.Logger) *XPathExtractor {
	return &XPathExtractor{
		logger: logger.With("component", "xpath_extractor"),
	}
}

// Extract implements Extractor.
func (e *XPathExtractor) Extract(body []byte, site sites.Config, pageURL string) (*PageReport, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ExtractError{Site: site.ID, URL: pageURL, Err: err}
	}

	nodes, err := htmlquery.QueryAll(doc, site.Selectors.Product)
	if err != nil {
		return nil, &types.ExtractError{Site: site.ID, URL: pageURL, Err: err}
	}

	report := &PageReport{}

	for i, node := range nodes {
		listing, skip := e.extractNode(node, site)
		if skip != "" {
			report.Skipped = append(report.Skipped, Skip{Index: i, Reason: skip})
			e.logger.Debug("element skipped", "site", site.ID, "url", pageURL, "index", i, "reason", skip)
			continue
		}
		report.Listings = append(report.Listings, listing)
	}

	return report, nil
}

func (e *XPathExtractor) extractNode(node *html.Node, site sites.Config) (types.RawListing, string) {
	name := e.text(node, site.Selectors.Name)
	if name == "" {
		return types.RawListing{}, types.ErrMissingName.Error()
	}

	priceText := defaultPriceText
	if t := e.text(node, site.Selectors.Price); t != "" {
		priceText = t
	}

	var imageURL string
	if site.Selectors.Image != "" {
		src := e.attr(node, site.Selectors.Image, "src")
		if src == "" {
			src = e.attr(node, site.Selectors.Image, "data-src")
		}
		imageURL = resolveURL(site.BaseURL, src)
	}

	var productURL string
	if site.Selectors.Link != "" {
		productURL = resolveURL(site.BaseURL, e.attr(node, site.Selectors.Link, "href"))
	}

	return types.RawListing{
		Name:       name,
		PriceText:  priceText,
		ImageURL:   imageURL,
		ProductURL: productURL,
		RatingText: e.text(node, site.Selectors.Rating),
	}, ""
}

// text evaluates expr relative to node and returns the first match's text.
func (e *XPathExtractor) text(node *html.Node, expr string) string {
	if expr == "" {
		return ""
	}
	match, err := htmlquery.Query(node, expr)
	if err != nil {
		e.logger.Warn("invalid xpath", "selector", expr, "error", err)
		return ""
	}
	if match == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(match))
}

// attr evaluates expr relative to node and returns an attribute of the
// first match.
func (e *XPathExtractor) attr(node *html.Node, expr, name string) string {
	if expr == "" {
		return ""
	}
	match, err := htmlquery.Query(node, expr)
	if err != nil {
		e.logger.Warn("invalid xpath", "selector", expr, "error", err)
		return ""
	}
	if match == nil {
		return ""
	}
	return htmlquery.SelectAttr(match, name)
}
