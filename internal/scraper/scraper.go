// Package scraper orchestrates the extraction pipeline: site registry →
// page fetcher → listing extractor → attribute normalizer → catalog merge.
// Pages within a site are always fetched one at a time with politeness
// delays; concurrency, when enabled, is one worker per site.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hookahlab/gearscout/internal/config"
	"github.com/hookahlab/gearscout/internal/extractor"
	"github.com/hookahlab/gearscout/internal/fetcher"
	"github.com/hookahlab/gearscout/internal/normalize"
	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/types"
)

// Fetcher retrieves raw listing markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// Merger commits normalized products to the catalog.
type Merger interface {
	Merge(ctx context.Context, products []types.Product) (types.MergeReport, error)
}

// Pacer injects politeness delays between requests.
type Pacer interface {
	BeforePage(ctx context.Context) error
	BeforeSite(ctx context.Context) error
}

// RunResult reports one site's scrape outcome. Page and element failures
// are best-effort: they are counted here, not raised.
type RunResult struct {
	Site          string            `json:"site"`
	Category      types.Category    `json:"category,omitempty"`
	ProductsFound int               `json:"products_found"`
	PagesFetched  int               `json:"pages_fetched"`
	PagesFailed   int               `json:"pages_failed"`
	Skipped       int               `json:"skipped"`
	Report        types.MergeReport `json:"details"`
}

// Scraper drives scrape runs against registered sites.
type Scraper struct {
	registry *sites.Registry
	fetch    Fetcher
	store    Merger
	cfg      *config.ScraperConfig
	logger   *slog.Logger
	stats    RunStats

	// newPacer builds the per-worker delay policy; swapped in tests.
	newPacer func() Pacer
}

// New creates a Scraper.
func New(registry *sites.Registry, fetch Fetcher, store Merger, cfg *config.ScraperConfig, logger *slog.Logger) *Scraper {
	return &Scraper{
		registry: registry,
		fetch:    fetch,
		store:    store,
		cfg:      cfg,
		logger:   logger.With("component", "scraper"),
		newPacer: func() Pacer { return fetcher.NewPacer(cfg) },
	}
}

// Stats exposes the cumulative run counters.
func (s *Scraper) Stats() *RunStats { return &s.stats }

// Run scrapes one site and merges the results. An unknown site or category
// is a configuration error and fails the run outright; failing pages and
// elements are skipped and counted. maxPages <= 0 uses the configured
// default.
func (s *Scraper) Run(ctx context.Context, siteID string, category types.Category, maxPages int) (*RunResult, error) {
	site, err := s.registry.Get(siteID)
	if err != nil {
		return nil, err
	}
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	if maxPages <= 0 {
		maxPages = s.cfg.MaxPages
	}

	return s.runSite(ctx, site, category, maxPages, s.newPacer())
}

// RunAll scrapes every registered site. With SiteWorkers > 1 sites run
// concurrently, one worker per site; each worker still serializes its own
// requests and paces them independently. Results converge at a single
// append point after each site finishes. Sites that fail outright, a
// rolled-back merge commit in particular, drop out of the results and
// their errors are joined into the returned error; the surviving results
// are still returned alongside it.
func (s *Scraper) RunAll(ctx context.Context, category types.Category, maxPages int) ([]*RunResult, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	if maxPages <= 0 {
		maxPages = s.cfg.MaxPages
	}

	ids := s.registry.IDs()

	if s.cfg.SiteWorkers <= 1 {
		return s.runAllSequential(ctx, ids, category, maxPages)
	}

	workers := s.cfg.SiteWorkers
	if workers > len(ids) {
		workers = len(ids)
	}

	idCh := make(chan string)
	var (
		mu      sync.Mutex
		results []*RunResult
		errs    []error
		wg      sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pacer := s.newPacer()
			first := true
			for id := range idCh {
				if !first {
					if err := pacer.BeforeSite(ctx); err != nil {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
						return
					}
				}
				first = false

				site, err := s.registry.Get(id)
				if err != nil {
					continue
				}
				result, err := s.runSite(ctx, site, category, maxPages, pacer)
				if err != nil {
					s.logger.Error("site run failed", "site", id, "error", err)
					mu.Lock()
					errs = append(errs, fmt.Errorf("site %s: %w", id, err))
					mu.Unlock()
					continue
				}
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		select {
		case idCh <- id:
		case <-ctx.Done():
			close(idCh)
			wg.Wait()
			return results, errors.Join(append(errs, ctx.Err())...)
		}
	}
	close(idCh)
	wg.Wait()

	return results, errors.Join(errs...)
}

func (s *Scraper) runAllSequential(ctx context.Context, ids []string, category types.Category, maxPages int) ([]*RunResult, error) {
	pacer := s.newPacer()
	var (
		results []*RunResult
		errs    []error
	)

	for i, id := range ids {
		if i > 0 {
			if err := pacer.BeforeSite(ctx); err != nil {
				return results, errors.Join(append(errs, err)...)
			}
		}

		site, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		result, err := s.runSite(ctx, site, category, maxPages, pacer)
		if err != nil {
			s.logger.Error("site run failed", "site", id, "error", err)
			errs = append(errs, fmt.Errorf("site %s: %w", id, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// runSite fetches the site's pages sequentially, extracts and normalizes
// listings, and merges once per run.
func (s *Scraper) runSite(ctx context.Context, site sites.Config, category types.Category, maxPages int, pacer Pacer) (*RunResult, error) {
	listingURL := site.ListingURL
	if category != "" {
		if u, ok := site.CategoryURL(category); ok {
			listingURL = u
		} else {
			s.logger.Info("no category URL, using default listing",
				"site", site.ID, "category", category, "url", listingURL)
		}
	}

	logger := s.logger.With("site", site.ID)
	ext := extractor.ForSite(site, s.logger)
	result := &RunResult{Site: site.ID, Category: category}

	var products []types.Product
	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := pacer.BeforePage(ctx); err != nil {
				return result, err
			}
		}

		pageURL := site.PageURL(listingURL, page)
		fetched, err := s.fetch.Fetch(ctx, pageURL)
		if err != nil {
			logger.Warn("page fetch failed", "url", pageURL, "error", err)
			result.PagesFailed++
			s.stats.PagesFailed.Add(1)
			continue
		}
		result.PagesFetched++
		s.stats.PagesFetched.Add(1)

		report, err := ext.Extract(fetched.Body, site, pageURL)
		if err != nil {
			logger.Warn("page extract failed", "url", pageURL, "error", err)
			result.PagesFailed++
			s.stats.PagesFailed.Add(1)
			continue
		}

		result.Skipped += len(report.Skipped)
		s.stats.ElementsSkipped.Add(int64(len(report.Skipped)))
		s.stats.ElementsExtracted.Add(int64(len(report.Listings)))

		for _, raw := range report.Listings {
			products = append(products, normalize.Listing(raw, site, category))
		}
	}

	result.ProductsFound = len(products)
	s.stats.SitesScraped.Add(1)

	if len(products) == 0 {
		logger.Info("scrape complete, nothing to merge", "pages_failed", result.PagesFailed)
		return result, nil
	}

	report, err := s.store.Merge(ctx, products)
	if err != nil {
		// A failed commit rolls back the whole batch; surface it rather
		// than reporting a zero-count success.
		return result, err
	}
	result.Report = report
	s.stats.ProductsMerged.Add(int64(report.Inserted + report.Updated))

	logger.Info("scrape complete",
		"products", result.ProductsFound,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"pages_failed", result.PagesFailed,
		"skipped", result.Skipped,
	)
	return result, nil
}
