package fetcher

import (
	"context"
	"time"
)

// Page is the result of fetching a listing URL.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the decompressed response body.
	Body []byte

	// Duration is how long the fetch took.
	Duration time.Duration

	// FetchedAt is when the response was received.
	FetchedAt time.Time
}

// Fetcher retrieves raw listing markup. Failures are returned as
// *types.FetchError values; a Fetcher never panics across this boundary.
type Fetcher interface {
	// Fetch retrieves the content at url.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
