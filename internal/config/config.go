package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for gearscout.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Scraper ScraperConfig `mapstructure:"scraper" yaml:"scraper"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Sites   []SiteConfig  `mapstructure:"sites"   yaml:"sites"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ScraperConfig controls scrape runs. The delay windows are the politeness
// policy: each request within a site waits a uniform random interval in
// [PageDelayMin, PageDelayMax] after the previous one, and sequential runs
// wait [SiteDelayMin, SiteDelayMax] between sites.
type ScraperConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	PageDelayMin   time.Duration `mapstructure:"page_delay_min"  yaml:"page_delay_min"`
	PageDelayMax   time.Duration `mapstructure:"page_delay_max"  yaml:"page_delay_max"`
	SiteDelayMin   time.Duration `mapstructure:"site_delay_min"  yaml:"site_delay_min"`
	SiteDelayMax   time.Duration `mapstructure:"site_delay_max"  yaml:"site_delay_max"`
	MaxPages       int           `mapstructure:"max_pages"       yaml:"max_pages"`
	SiteWorkers    int           `mapstructure:"site_workers"    yaml:"site_workers"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// StorageConfig selects and configures the catalog store backend.
type StorageConfig struct {
	Type           string `mapstructure:"type"            yaml:"type"` // mongo, memory
	URI            string `mapstructure:"uri"             yaml:"uri"`
	Database       string `mapstructure:"database"        yaml:"database"`
	Collection     string `mapstructure:"collection"      yaml:"collection"`
	GearCollection string `mapstructure:"gear_collection" yaml:"gear_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// SiteConfig declares an additional scrapable site in the config file,
// merged into the built-in registry at start.
type SiteConfig struct {
	ID           string            `mapstructure:"id"            yaml:"id"`
	BaseURL      string            `mapstructure:"base_url"      yaml:"base_url"`
	ListingURL   string            `mapstructure:"listing_url"   yaml:"listing_url"`
	CategoryURLs map[string]string `mapstructure:"category_urls" yaml:"category_urls"`
	Selectors    SelectorConfig    `mapstructure:"selectors"     yaml:"selectors"`
	SelectorType string            `mapstructure:"selector_type" yaml:"selector_type"`
	DefaultBrand string            `mapstructure:"default_brand" yaml:"default_brand"`
}

// SelectorConfig holds a site's field selectors.
type SelectorConfig struct {
	Product string `mapstructure:"product" yaml:"product"`
	Name    string `mapstructure:"name"    yaml:"name"`
	Price   string `mapstructure:"price"   yaml:"price"`
	Image   string `mapstructure:"image"   yaml:"image"`
	Link    string `mapstructure:"link"    yaml:"link"`
	Rating  string `mapstructure:"rating"  yaml:"rating"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Scraper: ScraperConfig{
			RequestTimeout: 10 * time.Second,
			PageDelayMin:   2 * time.Second,
			PageDelayMax:   4 * time.Second,
			SiteDelayMin:   5 * time.Second,
			SiteDelayMax:   10 * time.Second,
			MaxPages:       3,
			SiteWorkers:    3,
		},
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Storage: StorageConfig{
			Type:           "memory",
			URI:            "mongodb://localhost:27017",
			Database:       "gearscout",
			Collection:     "products",
			GearCollection: "user_gear",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
