package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/hookahlab/gearscout/internal/recommend"
	"github.com/hookahlab/gearscout/internal/scraper"
	"github.com/hookahlab/gearscout/internal/seed"
	"github.com/hookahlab/gearscout/internal/storage"
	"github.com/hookahlab/gearscout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeRunner returns canned run results.
type fakeRunner struct {
	stats   scraper.RunStats
	lastReq struct {
		site     string
		category types.Category
		pages    int
	}
	err error
}

func (r *fakeRunner) Run(ctx context.Context, siteID string, category types.Category, maxPages int) (*scraper.RunResult, error) {
	r.lastReq.site, r.lastReq.category, r.lastReq.pages = siteID, category, maxPages
	if r.err != nil {
		return nil, r.err
	}
	return &scraper.RunResult{Site: siteID, Category: category, ProductsFound: 2}, nil
}

func (r *fakeRunner) RunAll(ctx context.Context, category types.Category, maxPages int) ([]*scraper.RunResult, error) {
	r.lastReq.site, r.lastReq.category, r.lastReq.pages = "", category, maxPages
	if r.err != nil {
		return nil, r.err
	}
	return []*scraper.RunResult{
		{Site: "southsmoke", ProductsFound: 2},
		{Site: "sobehookah", ProductsFound: 1},
	}, nil
}

func (r *fakeRunner) Stats() *scraper.RunStats { return &r.stats }

// storeAdapter exposes the memory store to the recommendation engine.
type storeAdapter struct{ store *storage.MemoryStore }

func (a *storeAdapter) UserGear(ctx context.Context, userID string) ([]types.GearLink, error) {
	return a.store.UserGear(ctx, userID)
}

func (a *storeAdapter) AllProducts(ctx context.Context) ([]types.Product, error) {
	return a.store.Products(ctx, storage.ProductFilter{})
}

func testServer(t *testing.T) (*Server, *storage.MemoryStore, *fakeRunner) {
	t.Helper()
	store := storage.NewMemoryStore(testLogger)
	if _, err := seed.Load(context.Background(), store, testLogger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	runner := &fakeRunner{}
	engine := recommend.NewEngine(&storeAdapter{store: store}, testLogger)
	return NewServer(store, runner, engine, testLogger), store, runner
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON response: %v", method, path, err)
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)
	rec, body := doJSON(t, srv, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListGear(t *testing.T) {
	srv, _, _ := testServer(t)
	rec, body := doJSON(t, srv, http.MethodGet, "/api/gear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"].(float64) != 8 {
		t.Errorf("count = %v, want seeded 8", body["count"])
	}
}

func TestListGearFilters(t *testing.T) {
	srv, _, _ := testServer(t)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/gear?category=bowl", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"].(float64) != 2 {
		t.Errorf("bowl count = %v, want 2", body["count"])
	}

	rec, body = doJSON(t, srv, http.MethodGet, "/api/gear?brand=Kaloud&min_price=50", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("filtered count = %v, want 1", body["count"])
	}
}

func TestListGearBadInputs(t *testing.T) {
	srv, _, _ := testServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/gear?category=vapes", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/gear?min_price=cheap", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad min_price status = %d, want 400", rec.Code)
	}
}

func TestGetGearByID(t *testing.T) {
	srv, store, _ := testServer(t)

	all, _ := store.Products(context.Background(), storage.ProductFilter{})
	rec, body := doJSON(t, srv, http.MethodGet, "/api/gear/"+all[0].ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["name"] != all[0].Name {
		t.Errorf("name = %v, want %q", body["name"], all[0].Name)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/gear/mem-99999999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing ID status = %d, want 404", rec.Code)
	}
}

func TestCategoriesAndBrands(t *testing.T) {
	srv, _, _ := testServer(t)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/gear/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cats := body["categories"].([]any); len(cats) != 4 {
		t.Errorf("categories = %v, want the 4 seeded categories", cats)
	}

	rec, body = doJSON(t, srv, http.MethodGet, "/api/gear/brands", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if brands := body["brands"].([]any); len(brands) == 0 {
		t.Error("no brands returned")
	}
}

func TestRecommendationsNewUser(t *testing.T) {
	srv, _, _ := testServer(t)
	rec, body := doJSON(t, srv, http.MethodGet, "/api/recommendations?user_id=42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["mode"] != recommend.ModePopular {
		t.Errorf("mode = %v, want popular", body["mode"])
	}
}

func TestRecommendationsWithGear(t *testing.T) {
	srv, store, _ := testServer(t)

	all, _ := store.Products(context.Background(), storage.ProductFilter{})
	store.AddUserGear("1", all[0].ID)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/recommendations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["mode"] != recommend.ModeCompatible {
		t.Errorf("mode = %v, want compatible", body["mode"])
	}
	items := body["items"].([]any)
	for _, it := range items {
		if it.(map[string]any)["id"] == all[0].ID {
			t.Error("owned gear came back as a recommendation")
		}
	}
}

func TestCategoryRecommendations(t *testing.T) {
	srv, _, _ := testServer(t)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/recommendations/category/bowl", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, it := range body["items"].([]any) {
		if cat := it.(map[string]any)["category"]; cat != "bowl" {
			t.Errorf("item category = %v, want bowl", cat)
		}
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/recommendations/category/vapes", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", rec.Code)
	}
}

func TestTriggerAll(t *testing.T) {
	srv, _, runner := testServer(t)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/scraper/trigger", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "completed" {
		t.Errorf("status = %v", body["status"])
	}
	if len(body["results"].([]any)) != 2 {
		t.Errorf("results = %v", body["results"])
	}
	if runner.lastReq.site != "" {
		t.Errorf("site = %q, want all-sites run", runner.lastReq.site)
	}
}

func TestTriggerSingleSite(t *testing.T) {
	srv, _, runner := testServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/scraper/trigger",
		`{"site":"southsmoke","category":"bowl","max_pages":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if runner.lastReq.site != "southsmoke" || runner.lastReq.category != types.CategoryBowl || runner.lastReq.pages != 2 {
		t.Errorf("runner got %+v", runner.lastReq)
	}
}

func TestTriggerErrors(t *testing.T) {
	srv, _, runner := testServer(t)

	runner.err = types.ErrUnknownSite
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/scraper/trigger", `{"site":"nosuchsite"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown site status = %d, want 400", rec.Code)
	}

	runner.err = &types.MergeError{Backend: "memory", Err: context.DeadlineExceeded}
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/scraper/trigger", `{"site":"southsmoke"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("merge failure status = %d, want 500", rec.Code)
	}

	// An all-sites run joins per-site failures; rolled-back commits must
	// not come back as a completed response.
	runner.err = errors.Join(&types.MergeError{Backend: "memory", Err: context.DeadlineExceeded})
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/scraper/trigger", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("all-sites merge failure status = %d, want 500", rec.Code)
	}

	runner.err = nil
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/scraper/trigger", `{"site":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", rec.Code)
	}
}

func TestScraperStatus(t *testing.T) {
	srv, _, runner := testServer(t)
	runner.stats.PagesFetched.Add(7)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/scraper/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	catalog := body["catalog"].(map[string]any)
	if catalog["total_products"].(float64) != 8 {
		t.Errorf("total_products = %v, want 8", catalog["total_products"])
	}
	runs := body["runs"].(map[string]any)
	if runs["pages_fetched"].(float64) != 7 {
		t.Errorf("pages_fetched = %v, want 7", runs["pages_fetched"])
	}
}
