package fetcher

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hookahlab/gearscout/internal/config"
)

// Pacer implements the politeness delay policy: a mandatory pause before
// each request after the first, drawn uniformly from a configured window.
// The window minimum is enforced with a rate limiter so that pacing holds
// even if callers race; the jitter above the minimum is plain sleep.
//
// A Pacer serializes the request stream it paces. Use one per site worker;
// pacers share nothing.
type Pacer struct {
	pages *rate.Limiter
	sites *rate.Limiter

	pageJitter time.Duration
	siteJitter time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPacer builds a Pacer from the scraper delay windows.
func NewPacer(cfg *config.ScraperConfig) *Pacer {
	return &Pacer{
		pages:      minIntervalLimiter(cfg.PageDelayMin),
		sites:      minIntervalLimiter(cfg.SiteDelayMin),
		pageJitter: cfg.PageDelayMax - cfg.PageDelayMin,
		siteJitter: cfg.SiteDelayMax - cfg.SiteDelayMin,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// minIntervalLimiter returns a limiter enforcing at least min between events.
// The first event passes immediately.
func minIntervalLimiter(min time.Duration) *rate.Limiter {
	if min <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(min), 1)
}

// BeforePage blocks until the next same-site page request may be issued.
func (p *Pacer) BeforePage(ctx context.Context) error {
	return p.wait(ctx, p.pages, p.pageJitter)
}

// BeforeSite blocks until the next site's first request may be issued.
func (p *Pacer) BeforeSite(ctx context.Context) error {
	return p.wait(ctx, p.sites, p.siteJitter)
}

func (p *Pacer) wait(ctx context.Context, lim *rate.Limiter, jitter time.Duration) error {
	if err := lim.Wait(ctx); err != nil {
		return err
	}
	if jitter <= 0 {
		return nil
	}

	p.mu.Lock()
	d := time.Duration(p.rng.Int63n(int64(jitter) + 1))
	p.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
