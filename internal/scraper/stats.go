package scraper

import (
	"sync/atomic"
)

// RunStats tracks scraping counters across runs.
type RunStats struct {
	PagesFetched      atomic.Int64
	PagesFailed       atomic.Int64
	ElementsExtracted atomic.Int64
	ElementsSkipped   atomic.Int64
	ProductsMerged    atomic.Int64
	SitesScraped      atomic.Int64
}

// Snapshot returns a copy of the stats safe for reading.
func (s *RunStats) Snapshot() map[string]any {
	return map[string]any{
		"pages_fetched":      s.PagesFetched.Load(),
		"pages_failed":       s.PagesFailed.Load(),
		"elements_extracted": s.ElementsExtracted.Load(),
		"elements_skipped":   s.ElementsSkipped.Load(),
		"products_merged":    s.ProductsMerged.Load(),
		"sites_scraped":      s.SitesScraped.Load(),
	}
}
