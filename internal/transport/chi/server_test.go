package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/query"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
)

// --- Mocks ---

type mockSearcher struct {
	results []candidate.Candidate
	err     error
	last    query.Query
	panics  bool
}

func (m *mockSearcher) Search(_ context.Context, q query.Query) ([]candidate.Candidate, error) {
	if m.panics {
		panic("boom")
	}
	m.last = q
	return m.results, m.err
}

type mockChatter struct {
	result chatuc.Result
	err    error
	last   query.Query
}

func (m *mockChatter) Chat(_ context.Context, q query.Query) (chatuc.Result, error) {
	m.last = q
	return m.result, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type fixture struct {
	handler http.Handler
	search  *mockSearcher
	chat    *mockChatter
	health  *mockHealth
}

func newFixture() *fixture {
	f := &fixture{
		search: &mockSearcher{},
		chat:   &mockChatter{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{healthuc.ComponentVectorStore: healthuc.CheckOK},
		}},
	}
	f.handler = NewRouter(NewServer(f.search, f.chat, f.health, zap.NewNop()))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return e
}

func laptop() candidate.Candidate {
	return candidate.New("p12_c0", "ASUS TUF Gaming F15. RTX 4050", candidate.Metadata{
		ProductID: 12, HasProductID: true,
		Name: "ASUS TUF Gaming F15", Brand: "ASUS", CategoryName: "Laptop Gaming",
		Price: 25990000, ImageURL: "https://cdn.example.vn/tuf.jpg",
		SpecText: "GPU: RTX 4050",
		Extra:    map[string]string{"warranty": "24 tháng"},
	}, 0.83)
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	f := newFixture()
	f.search.results = []candidate.Candidate{laptop().WithRerankScore(0.97)}

	rr := f.do(http.MethodPost, "/search", `{"query":"laptop gaming","top_k":3}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if f.search.last.TopK() != 3 || f.search.last.Text() != "laptop gaming" {
		t.Errorf("query = %q/%d", f.search.last.Text(), f.search.last.TopK())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	got := resp.Results[0]
	if got.ID != "p12_c0" || got.ProductID == nil || *got.ProductID != 12 {
		t.Errorf("ids = %s/%v", got.ID, got.ProductID)
	}
	if got.Score != 0.83 || got.RerankScore == nil || *got.RerankScore != 0.97 {
		t.Errorf("scores = %v/%v", got.Score, got.RerankScore)
	}
	if got.Price == nil || *got.Price != 25990000 {
		t.Errorf("price = %v", got.Price)
	}
	if got.Metadata["warranty"] != "24 tháng" || got.Metadata["spec_text"] != "GPU: RTX 4050" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	f := newFixture()
	rr := f.do(http.MethodPost, "/search", `{"query":"tai nghe"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if f.search.last.TopK() != query.DefaultSearchTopK {
		t.Errorf("top_k = %d, want %d", f.search.last.TopK(), query.DefaultSearchTopK)
	}
	if !strings.Contains(rr.Body.String(), `"results":[]`) {
		t.Errorf("empty results must encode as [], got %s", rr.Body.String())
	}
}

func TestSearch_UnknownPriceIsNull(t *testing.T) {
	f := newFixture()
	f.search.results = []candidate.Candidate{candidate.New("p1_c0", "doc", candidate.Metadata{}, 0.5)}

	rr := f.do(http.MethodPost, "/search", `{"query":"x"}`)
	if !strings.Contains(rr.Body.String(), `"price":null`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"empty query", `{"query":"   "}`, ErrorCodeValidationFailed},
		{"top_k zero", `{"query":"laptop","top_k":0}`, ErrorCodeValidationFailed},
		{"top_k too large", `{"query":"laptop","top_k":21}`, ErrorCodeValidationFailed},
		{"negative top_k", `{"query":"laptop","top_k":-1}`, ErrorCodeValidationFailed},
		{"malformed json", `{"query":`, ErrorCodeBadRequest},
		{"wrong type", `{"query":"x","top_k":"five"}`, ErrorCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			rr := f.do(http.MethodPost, "/search", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if e := decodeError(t, rr); e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"embedding", fmt.Errorf("vectorize query: %w", domain.ErrEmbeddingProviderError),
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError},
		{"rate limited", fmt.Errorf("api 429: %w: %w", domain.ErrRateLimited, domain.ErrEmbeddingProviderError),
			http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"vector store", fmt.Errorf("knn products: %w: dial tcp", domain.ErrVectorStoreUnavailable),
			http.StatusServiceUnavailable, ErrorCodeVectorStoreUnavailable},
		{"unknown", errors.New("secret internal detail"),
			http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.search.err = tt.err

			rr := f.do(http.MethodPost, "/search", `{"query":"laptop"}`)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			e := decodeError(t, rr)
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if strings.Contains(e.Message, "dial tcp") || strings.Contains(e.Message, "secret") {
				t.Errorf("message leaks internals: %q", e.Message)
			}
		})
	}
}

func TestChat_OK(t *testing.T) {
	f := newFixture()
	f.chat.result = chatuc.Result{
		Answer:  "Gợi ý laptop gaming phù hợp nhất",
		Intent:  intent.Gaming,
		Context: []candidate.Candidate{laptop()},
	}

	rr := f.do(http.MethodPost, "/chat", `{"query":"laptop chơi game"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if f.chat.last.TopK() != query.DefaultChatTopK {
		t.Errorf("top_k = %d, want %d", f.chat.last.TopK(), query.DefaultChatTopK)
	}
	var resp ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Intent != "GAMING" || len(resp.Context) != 1 || resp.OutOfDomain {
		t.Errorf("resp = %+v", resp)
	}
	if strings.Contains(rr.Body.String(), "out_of_domain") {
		t.Error("out_of_domain must be omitted when false")
	}
}

func TestChat_OutOfDomain(t *testing.T) {
	f := newFixture()
	f.chat.result = chatuc.Result{
		Answer:      "Xin lỗi, cửa hàng không kinh doanh xe cộ.",
		Intent:      intent.General,
		OutOfDomain: true,
		Label:       "xe cộ",
		Context:     []candidate.Candidate{},
	}

	rr := f.do(http.MethodPost, "/chat", `{"query":"ô tô điện","top_k":3}`)
	var resp ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OutOfDomain || resp.Label != "xe cộ" || resp.Context == nil || len(resp.Context) != 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChat_TopKLimit(t *testing.T) {
	f := newFixture()
	rr := f.do(http.MethodPost, "/chat", `{"query":"laptop","top_k":11}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rr := f.do(http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Status != "ok" || resp.Checks["vector_store"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}

	f.health.report = healthuc.Report{Status: healthuc.Degraded, Checks: map[string]healthuc.CheckResult{}}
	if rr := f.do(http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("degraded status = %d, want 200", rr.Code)
	}

	f.health.report = healthuc.Report{Status: healthuc.Unhealthy, Checks: map[string]healthuc.CheckResult{}}
	if rr := f.do(http.MethodGet, "/health", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	rr := f.do(http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected default Go collector output")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound || decodeError(t, rr).Code != ErrorCodeNotFound {
		t.Errorf("404: status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = f.do(http.MethodGet, "/search", "")
	if rr.Code != http.StatusMethodNotAllowed || decodeError(t, rr).Code != ErrorCodeMethodNotAllowed {
		t.Errorf("405: status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRouter_RecoversPanicAsJSON(t *testing.T) {
	f := newFixture()
	f.search.panics = true

	rr := f.do(http.MethodPost, "/search", `{"query":"laptop"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeInternalError {
		t.Errorf("code = %s", e.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	f := newFixture()
	rr := f.do(http.MethodGet, "/health", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}
