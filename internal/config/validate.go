package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	if cfg.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if cfg.Scraper.PageDelayMin < 0 {
		return fmt.Errorf("scraper.page_delay_min must be >= 0")
	}
	if cfg.Scraper.PageDelayMax < cfg.Scraper.PageDelayMin {
		return fmt.Errorf("scraper.page_delay_max must be >= page_delay_min")
	}
	if cfg.Scraper.SiteDelayMin < 0 {
		return fmt.Errorf("scraper.site_delay_min must be >= 0")
	}
	if cfg.Scraper.SiteDelayMax < cfg.Scraper.SiteDelayMin {
		return fmt.Errorf("scraper.site_delay_max must be >= site_delay_min")
	}
	if cfg.Scraper.MaxPages < 1 {
		return fmt.Errorf("scraper.max_pages must be >= 1, got %d", cfg.Scraper.MaxPages)
	}
	if cfg.Scraper.SiteWorkers < 1 {
		return fmt.Errorf("scraper.site_workers must be >= 1, got %d", cfg.Scraper.SiteWorkers)
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Storage.Type != "mongo" && cfg.Storage.Type != "memory" {
		return fmt.Errorf("storage.type must be 'mongo' or 'memory', got %q", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" {
		if cfg.Storage.URI == "" {
			return fmt.Errorf("storage.uri is required for mongo storage")
		}
		if cfg.Storage.Database == "" || cfg.Storage.Collection == "" {
			return fmt.Errorf("storage.database and storage.collection are required for mongo storage")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is valid for fetching.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
