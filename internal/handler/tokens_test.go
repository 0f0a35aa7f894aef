package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anuragp22/axiom-sub000/internal/cache"
	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/query"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// fakeTokenService is a scriptable TokenService double.
type fakeTokenService struct {
	page       query.Page
	token      domain.Token
	found      bool
	err        error
	clearedKey *string
}

func (f *fakeTokenService) List(ctx context.Context, params query.Params) (query.Page, error) {
	return f.page, f.err
}

func (f *fakeTokenService) Search(ctx context.Context, q string, params query.Params) (query.Page, error) {
	if len(q) < 2 {
		return query.Page{}, &domain.ValidationError{Field: "q", Message: "query must be at least 2 characters"}
	}
	return f.page, f.err
}

func (f *fakeTokenService) Trending(ctx context.Context, limit int) ([]domain.Token, error) {
	return f.page.Items, f.err
}

func (f *fakeTokenService) ByAddress(ctx context.Context, address string) (domain.Token, bool, error) {
	return f.token, f.found, f.err
}

func (f *fakeTokenService) ClearCache(ctx context.Context, key string) {
	f.clearedKey = &key
}

func (f *fakeTokenService) CacheStats(ctx context.Context) cache.Stats {
	return cache.Stats{Backend: "memory", Hits: 3, Misses: 1, Entries: 2}
}

func newTestRouter(svc TokenService, adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	New(tracer, svc, nil, adminKey).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, headers map[string]string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)

	var envelope Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unparseable envelope %q: %v", w.Body.String(), err)
	}
	return w, envelope
}

func TestListTokensOK(t *testing.T) {
	svc := &fakeTokenService{page: query.Page{
		Items: []domain.Token{{Address: "a", Ticker: "AAA"}},
		Total: 1,
	}}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens?minVolume=100&sort=marketCap&direction=asc&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !envelope.Success || envelope.Error != nil {
		t.Errorf("unexpected envelope %+v", envelope)
	}
	if envelope.Timestamp == 0 {
		t.Error("expected timestamp set")
	}
}

func TestListTokensRejectsBadSort(t *testing.T) {
	r := newTestRouter(&fakeTokenService{}, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens?sort=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if envelope.Success || envelope.Error == nil || envelope.Error.Code != codeInvalidRequest {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestListTokensRejectsBadDirection(t *testing.T) {
	r := newTestRouter(&fakeTokenService{}, "")

	w, _ := doRequest(t, r, "GET", "/api/tokens?direction=sideways", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListTokensUpstreamFailure(t *testing.T) {
	svc := &fakeTokenService{err: &domain.UpstreamError{
		Provider: "dexscreener",
		Status:   503,
		Err:      errors.New("service unavailable: internal node ip 10.1.2.3"),
	}}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != codeExternalAPI {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	// Upstream details never reach the client.
	if envelope.Error.Message != "upstream fetch failed" {
		t.Errorf("upstream error leaked: %q", envelope.Error.Message)
	}
}

func TestListTokensInternalFailure(t *testing.T) {
	svc := &fakeTokenService{err: errors.New("boom")}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != codeInternal {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestSearchTokensShortQuery(t *testing.T) {
	r := newTestRouter(&fakeTokenService{}, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens/search?q=x", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != codeInvalidRequest {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestGetTokenNotFound(t *testing.T) {
	svc := &fakeTokenService{found: false}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens/some-address", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != codeNotFound {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestGetTokenFound(t *testing.T) {
	svc := &fakeTokenService{token: domain.Token{Address: "abc", Ticker: "ABC"}, found: true}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens/abc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !envelope.Success {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestTrendingTokens(t *testing.T) {
	svc := &fakeTokenService{page: query.Page{Items: []domain.Token{{Address: "hot"}}}}
	r := newTestRouter(svc, "")

	w, envelope := doRequest(t, r, "GET", "/api/tokens/trending?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !envelope.Success {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestCacheStats(t *testing.T) {
	r := newTestRouter(&fakeTokenService{}, "")

	w, envelope := doRequest(t, r, "GET", "/api/cache/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !envelope.Success {
		t.Errorf("unexpected envelope %+v", envelope)
	}
}

func TestClearCacheRequiresAPIKey(t *testing.T) {
	svc := &fakeTokenService{}
	r := newTestRouter(svc, "secret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/cache/clear", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}
	if svc.clearedKey != nil {
		t.Error("cache cleared without authorization")
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/cache/clear?key=tokens:list", nil)
	req.Header.Set("X-API-Key", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/cache/clear?key=tokens:list", nil)
	req.Header.Set("X-API-Key", "secret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", w.Code)
	}
	if svc.clearedKey == nil || *svc.clearedKey != "tokens:list" {
		t.Errorf("expected clear forwarded with key, got %v", svc.clearedKey)
	}
}
