// Package api exposes the catalog, recommendation, and scraper control
// endpoints over REST.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hookahlab/gearscout/internal/config"
	"github.com/hookahlab/gearscout/internal/recommend"
	"github.com/hookahlab/gearscout/internal/scraper"
	"github.com/hookahlab/gearscout/internal/storage"
	"github.com/hookahlab/gearscout/internal/types"
)

// defaultUserID is used when a recommendation request names no user.
const defaultUserID = "1"

// Runner is the interface the API uses to drive scrape runs.
type Runner interface {
	Run(ctx context.Context, siteID string, category types.Category, maxPages int) (*scraper.RunResult, error)
	RunAll(ctx context.Context, category types.Category, maxPages int) ([]*scraper.RunResult, error)
	Stats() *scraper.RunStats
}

// Recommender is the interface the API uses for recommendations.
type Recommender interface {
	Recommend(ctx context.Context, userID string, category types.Category) (*recommend.Response, error)
	RecommendCategory(ctx context.Context, userID string, category types.Category) (*recommend.Response, error)
}

// Server provides the REST API. The caller owns the http.Server wrapping
// Handler, so listener lifecycle and shutdown stay with the command layer.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger

	store     storage.CatalogStore
	runner    Runner
	recommend Recommender
}

// NewServer creates the API server over the given backends.
func NewServer(store storage.CatalogStore, runner Runner, rec Recommender, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger.With("component", "api_server"),
		store:     store,
		runner:    runner,
		recommend: rec,
	}

	s.registerRoutes()
	return s
}

// Handler returns the route handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) registerRoutes() {
	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Catalog
	s.mux.HandleFunc("GET /api/gear", s.handleListGear)
	s.mux.HandleFunc("GET /api/gear/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/gear/brands", s.handleBrands)
	s.mux.HandleFunc("GET /api/gear/{id}", s.handleGetGear)

	// Recommendations
	s.mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	s.mux.HandleFunc("GET /api/recommendations/category/{category}", s.handleCategoryRecommendations)

	// Scraper control
	s.mux.HandleFunc("POST /api/scraper/trigger", s.handleTrigger)
	s.mux.HandleFunc("GET /api/scraper/status", s.handleScraperStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleListGear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.ProductFilter{
		Brand: q.Get("brand"),
	}
	if c := q.Get("category"); c != "" {
		category := types.Category(c)
		if !category.Valid() {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", c))
			return
		}
		filter.Category = category
	}
	for name, dst := range map[string]**float64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
			return
		}
		*dst = &v
	}

	products, err := s.store.Products(r.Context(), filter)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items": products,
		"count": len(products),
	})
}

func (s *Server) handleGetGear(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.ProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, product)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.store.Brands(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"brands": brands})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = defaultUserID
	}

	var category types.Category
	if c := r.URL.Query().Get("category"); c != "" {
		category = types.Category(c)
		if !category.Valid() {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", c))
			return
		}
	}

	resp, err := s.recommend.Recommend(r.Context(), userID, category)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCategoryRecommendations(w http.ResponseWriter, r *http.Request) {
	category := types.Category(r.PathValue("category"))
	if !category.Valid() {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", category))
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = defaultUserID
	}

	resp, err := s.recommend.RecommendCategory(r.Context(), userID, category)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Site     string `json:"site"`
		Category string `json:"category"`
		MaxPages int    `json:"max_pages"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	category := types.Category(body.Category)

	var (
		results []*scraper.RunResult
		err     error
	)
	if body.Site == "" {
		results, err = s.runner.RunAll(r.Context(), category, body.MaxPages)
	} else {
		var result *scraper.RunResult
		result, err = s.runner.Run(r.Context(), body.Site, category, body.MaxPages)
		if result != nil {
			results = append(results, result)
		}
	}
	if err != nil {
		s.runError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "completed",
		"results": results,
	})
}

func (s *Server) handleScraperStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"catalog": stats,
		"runs":    s.runner.Stats().Snapshot(),
	})
}

// runError maps scrape-run failures to status codes. Unknown sites and
// categories are caller mistakes; merge failures are server side.
func (s *Server) runError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrUnknownSite), errors.Is(err, types.ErrUnknownCategory):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("scrape run failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("store query failed", "error", err)
	s.errorResponse(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
