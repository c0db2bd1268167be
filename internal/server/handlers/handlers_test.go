package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/torgprom/econdash/internal/generator"
	"github.com/torgprom/econdash/internal/repository/csvstore"
	"github.com/torgprom/econdash/internal/server/handlers"
	"github.com/torgprom/econdash/internal/server/router"
	analyticssvc "github.com/torgprom/econdash/internal/service/analytics"
	datasetsvc "github.com/torgprom/econdash/internal/service/dataset"
	marketsvc "github.com/torgprom/econdash/internal/service/market"
	"github.com/torgprom/econdash/pkg/clients/coingecko"
	"github.com/torgprom/econdash/pkg/clients/worldbank"
)

type stubCrypto struct{ err error }

func (s *stubCrypto) Markets(ctx context.Context, currency string, perPage int) ([]coingecko.Market, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []coingecko.Market{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 60000}}, nil
}

func (s *stubCrypto) History(ctx context.Context, coinID, currency string, days int) (*coingecko.History, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &coingecko.History{Prices: [][2]float64{{1700000000000, 60000}}}, nil
}

func (s *stubCrypto) GlobalData(ctx context.Context) (*coingecko.Global, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &coingecko.Global{Data: map[string]any{"markets": 900}}, nil
}

// stubIndicators always fails so handlers exercise the sample fallback.
type stubIndicators struct{}

func (s *stubIndicators) Indicators(ctx context.Context, countries, indicators []string, startYear, endYear int) ([]worldbank.Point, error) {
	return nil, errors.New("offline")
}

type testEnv struct {
	engine    *gin.Engine
	store     *csvstore.Store
	analytics *analyticssvc.Service
}

func newTestEnv(t *testing.T, cryptoErr error) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := csvstore.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	analytics := analyticssvc.NewService(nil, nil)
	lifecycle := datasetsvc.NewService(store, analytics, generator.Params{Days: 5, RecordsPerDay: 4, Seed: 1}, nil)
	if err := lifecycle.Init(context.Background()); err != nil {
		t.Fatalf("dataset init: %v", err)
	}

	market := marketsvc.NewService(&stubCrypto{err: cryptoErr}, &stubIndicators{}, nil)

	engine := router.New(router.Handlers{
		Data:   handlers.NewDataHandler(analytics, lifecycle, nil),
		Files:  handlers.NewFilesHandler(store, nil),
		Market: handlers.NewMarketHandler(market, nil),
	}, router.Options{}, nil)

	return &testEnv{engine: engine, store: store, analytics: analytics}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, w.Body.String())
	}
	return body
}

func TestSalesEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/sales", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) == 0 {
		t.Error("expected generated sales records")
	}
}

func TestSalesEndpoint_Filters(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("absent category is empty not error", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/sales?category=furniture", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if body := decodeBody(t, w); body["count"].(float64) != 0 {
			t.Errorf("expected empty result, got %v", body["count"])
		}
	})

	t.Run("bad date is 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/sales?start_date=yesterday", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("bad limit is 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/sales?limit=ten", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestInventoryAndProfitEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	if w := env.do(t, http.MethodGet, "/api/inventory", ""); w.Code != http.StatusOK {
		t.Errorf("inventory status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/inventory?low_stock=maybe", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad low_stock should be 400, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/profit?min_margin=20", ""); w.Code != http.StatusOK {
		t.Errorf("profit status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/profit?min_margin=high", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad min_margin should be 400, got %d", w.Code)
	}
}

func TestTrendsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, period := range []string{"", "daily", "weekly", "monthly"} {
		w := env.do(t, http.MethodGet, "/api/trends?period="+period, "")
		if w.Code != http.StatusOK {
			t.Errorf("period %q: status = %d, want 200", period, w.Code)
		}
	}

	if w := env.do(t, http.MethodGet, "/api/trends?period=hourly", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid period should be 400, got %d", w.Code)
	}
}

func TestStatsCategoriesRegions(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	stats := decodeBody(t, w)
	if _, ok := stats["total_revenue"]; !ok {
		t.Error("stats response missing total_revenue")
	}

	w = env.do(t, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("categories status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["categories"] == nil {
		t.Error("categories response missing list")
	}

	if w := env.do(t, http.MethodGet, "/api/regions", ""); w.Code != http.StatusOK {
		t.Errorf("regions status = %d", w.Code)
	}
}

func TestRegenerateEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	before := env.analytics.Sales(analyticssvc.SalesFilter{Limit: 100000})

	w := env.do(t, http.MethodPost, "/api/regenerate", `{"days": 3, "records_per_day": 2, "seed": 123}`)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d: %s", w.Code, w.Body.String())
	}

	after := env.analytics.Sales(analyticssvc.SalesFilter{Limit: 100000})
	if len(after) == 0 {
		t.Fatal("regeneration should produce records")
	}
	if len(after) == len(before) {
		t.Log("record counts happened to match; verifying IDs differ is covered by store tests")
	}

	// The files must reflect the new dataset wholesale.
	window, err := env.store.ReadWindow(csvstore.SalesFile, 0, 100000)
	if err != nil {
		t.Fatal(err)
	}
	if window.TotalRows != len(after) {
		t.Errorf("persisted rows %d != in-memory rows %d", window.TotalRows, len(after))
	}
}

func TestRegenerateEndpoint_InvalidParams(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/regenerate", `{"days": 5000}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range days should be 400, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/regenerate", `{"days": `)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body should be 400, got %d", w.Code)
	}
}

func TestFilesEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/files", "")
	if w.Code != http.StatusOK {
		t.Fatalf("files status = %d", w.Code)
	}
	body := decodeBody(t, w)
	files, ok := body["files"].([]any)
	if !ok || len(files) != 5 {
		t.Fatalf("expected 5 files, got %v", body["files"])
	}

	w = env.do(t, http.MethodGet, "/api/files/sales.csv?limit=2&offset=0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("file content status = %d", w.Code)
	}
	window := decodeBody(t, w)
	if rows, ok := window["rows"].([]any); !ok || len(rows) > 2 {
		t.Errorf("window should honor limit, got %v", window["rows"])
	}

	if w := env.do(t, http.MethodGet, "/api/files/sales.csv?offset=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("negative offset should be 400, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/files/ghost.csv", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown file should be 404, got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, "/api/files/profit.csv/stats", ""); w.Code != http.StatusOK {
		t.Errorf("file stats status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/files/ghost.csv/stats", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown file stats should be 404, got %d", w.Code)
	}
}

func TestCryptoEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/crypto/markets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("crypto markets status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/crypto/bitcoin/history?days=7", ""); w.Code != http.StatusOK {
		t.Errorf("crypto history status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/crypto/global", ""); w.Code != http.StatusOK {
		t.Errorf("crypto global status = %d", w.Code)
	}
}

func TestCryptoEndpoints_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, errors.New("rate limited"))

	if w := env.do(t, http.MethodGet, "/api/crypto/markets", ""); w.Code != http.StatusBadGateway {
		t.Errorf("upstream failure should be 502, got %d", w.Code)
	}
}

func TestWorldBankEndpoints_SampleFallback(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/worldbank/indicators", "")
	if w.Code != http.StatusOK {
		t.Fatalf("indicators status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["count"].(float64) == 0 {
		t.Error("offline indicator client should still serve sample data")
	}

	w = env.do(t, http.MethodGet, "/api/worldbank/health?countries=UA,DE", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	if w := env.do(t, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
}
