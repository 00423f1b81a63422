package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Scraper.PageDelayMin != 2*time.Second || cfg.Scraper.PageDelayMax != 4*time.Second {
		t.Errorf("page delay window = [%v, %v]", cfg.Scraper.PageDelayMin, cfg.Scraper.PageDelayMax)
	}
	if cfg.Scraper.SiteDelayMin != 5*time.Second || cfg.Scraper.SiteDelayMax != 10*time.Second {
		t.Errorf("site delay window = [%v, %v]", cfg.Scraper.SiteDelayMin, cfg.Scraper.SiteDelayMax)
	}
	if cfg.Scraper.MaxPages != 3 {
		t.Errorf("MaxPages = %d", cfg.Scraper.MaxPages)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %q", cfg.Storage.Type)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gearscout.yaml")
	content := `
server:
  port: 9090
scraper:
  max_pages: 5
storage:
  type: mongo
  uri: mongodb://db.example.com:27017
sites:
  - id: newsite
    base_url: https://new.example.com
    listing_url: https://new.example.com/hookahs
    selectors:
      product: ".item"
      name: ".title"
    default_brand: NewSite
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want file override", cfg.Server.Port)
	}
	if cfg.Scraper.MaxPages != 5 {
		t.Errorf("MaxPages = %d, want 5", cfg.Scraper.MaxPages)
	}
	// Unset keys keep defaults.
	if cfg.Scraper.PageDelayMin != 2*time.Second {
		t.Errorf("PageDelayMin = %v, want default", cfg.Scraper.PageDelayMin)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].ID != "newsite" {
		t.Errorf("Sites = %+v", cfg.Sites)
	}
	if cfg.Sites[0].Selectors.Product != ".item" {
		t.Errorf("Selectors = %+v", cfg.Sites[0].Selectors)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/gearscout.yaml"); err == nil {
		t.Error("Load accepted a missing explicit config path")
	}
}

func TestValidateRejections(t *testing.T) {
	mutations := []func(*Config){
		func(c *Config) { c.Server.Port = 0 },
		func(c *Config) { c.Scraper.RequestTimeout = 0 },
		func(c *Config) { c.Scraper.PageDelayMax = c.Scraper.PageDelayMin - time.Second },
		func(c *Config) { c.Scraper.SiteDelayMax = c.Scraper.SiteDelayMin - time.Second },
		func(c *Config) { c.Scraper.MaxPages = 0 },
		func(c *Config) { c.Scraper.SiteWorkers = 0 },
		func(c *Config) { c.Storage.Type = "postgres" },
		func(c *Config) { c.Storage.Type = "mongo"; c.Storage.URI = "" },
		func(c *Config) { c.Logging.Level = "trace" },
		func(c *Config) { c.Logging.Format = "xml" },
	}
	for i, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("mutation %d passed validation", i)
		}
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://example.com", "http://example.com/path?page=2"}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v", u, err)
		}
	}

	invalid := []string{"", "ftp://example.com", "example.com/no-scheme", "https://"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) accepted invalid URL", u)
		}
	}
}
