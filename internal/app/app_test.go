package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/query"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
)

// --- Fakes ---

// embeddingServer is an OpenAI-compatible /embeddings endpoint that records inputs.
type embeddingServer struct {
	*httptest.Server
	mu     sync.Mutex
	inputs []string
}

func newEmbeddingServer(t *testing.T) *embeddingServer {
	t.Helper()
	s := &embeddingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input json.RawMessage `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var texts []string
		if err := json.Unmarshal(req.Input, &texts); err != nil {
			var one string
			_ = json.Unmarshal(req.Input, &one)
			texts = []string{one}
		}
		s.mu.Lock()
		s.inputs = append(s.inputs, texts...)
		s.mu.Unlock()

		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, len(texts))
		for i := range texts {
			data[i] = item{Object: "embedding", Embedding: []float32{0.1, 0.2, 0.3}, Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "mini",
			"usage":  map[string]int{"prompt_tokens": len(texts), "total_tokens": len(texts)},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *embeddingServer) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs[len(s.inputs)-1]
}

type fakeStore struct {
	entries []db.SearchEntry
	pingErr error
	lastK   int
}

func (f *fakeStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	f.lastK = q.K
	return &db.SearchResult{Total: len(f.entries), Entries: f.entries}, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeStore) Close()                       {}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}}, nil
}

func hit(key, name, category, spec string, score float64) db.SearchEntry {
	return db.SearchEntry{Key: "catalog:chunk:" + key, Score: score, Fields: map[string]string{
		"document":      name + ". " + spec,
		"name":          name,
		"category_name": category,
		"spec_text":     spec,
		"price":         "21990000",
	}}
}

// --- Tests ---

func TestBuildEmbedders_LocalWithInstructions(t *testing.T) {
	srv := newEmbeddingServer(t)
	cfg := config.EmbeddingConfig{
		Local:               config.BackendConfig{BaseURL: srv.URL, Model: "mini"},
		QueryInstruction:    "query: ",
		DocumentInstruction: "passage: ",
	}

	emb, err := BuildEmbedders(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildEmbedders: %v", err)
	}
	if emb.Selection.Dim != 3 || emb.Selection.Backend.Provider() != "local" {
		t.Errorf("selection = %s dim %d", emb.Selection.Backend.Provider(), emb.Selection.Dim)
	}

	if _, err := emb.Query.Embed(context.Background(), "laptop gaming"); err != nil {
		t.Fatalf("query embed: %v", err)
	}
	if got := srv.last(); got != "query: laptop gaming" {
		t.Errorf("query side sent %q", got)
	}
	if _, err := emb.Document.Embed(context.Background(), "ASUS TUF"); err != nil {
		t.Fatalf("document embed: %v", err)
	}
	if got := srv.last(); got != "passage: ASUS TUF" {
		t.Errorf("document side sent %q", got)
	}
	if err := emb.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestBuildEmbedders_NoBackend(t *testing.T) {
	_, err := BuildEmbedders(context.Background(), config.EmbeddingConfig{}, nil, zap.NewNop())
	if !errors.Is(err, domain.ErrNoEmbeddingBackend) {
		t.Fatalf("expected ErrNoEmbeddingBackend, got %v", err)
	}
}

func TestWithInstruction_EmptyIsIdentity(t *testing.T) {
	var e domain.Embedder = fixedEmbedder{}
	if withInstruction(e, "") != e {
		t.Error("empty instruction must not wrap")
	}
	if _, ok := withInstruction(e, "q: ").(*domain.InstructionEmbedder); !ok {
		t.Error("non-empty instruction must wrap")
	}
}

func TestNewPipeline_ChatEndToEnd(t *testing.T) {
	tables, err := config.LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	store := &fakeStore{entries: []db.SearchEntry{
		hit("p1_c0", "Lenovo IdeaPad Slim 3", "Laptop", "Core i5, Intel Iris Xe", 0.9),
		hit("p2_c0", "Acer Nitro V15", "Laptop", "Core i5-13420H, RTX 3050", 0.8),
	}}
	p := NewPipeline(PipelineDeps{
		Rules:    tables,
		Embedder: fixedEmbedder{},
		Store:    store,
		Reranker: nil,
		Chat:     chatuc.Config{},
	})

	q, _ := query.NewChat("laptop gaming", 1)
	res, err := p.Chat.Chat(context.Background(), q)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.Intent != intent.Gaming {
		t.Errorf("intent = %s", res.Intent)
	}
	if ids := candidate.IDs(res.Context); len(ids) != 1 || ids[0] != "p2_c0" {
		t.Errorf("context = %v, want [p2_c0]", ids)
	}
	if !strings.Contains(res.Answer, "Acer Nitro V15") {
		t.Errorf("answer = %q", res.Answer)
	}
	if store.lastK != chatuc.DefaultMinPool {
		t.Errorf("pool k = %d, want %d", store.lastK, chatuc.DefaultMinPool)
	}

	sq, _ := query.NewSearch("laptop", 2)
	hits, err := p.Search.Search(context.Background(), sq)
	if err != nil || len(hits) != 2 || store.lastK != 2 {
		t.Errorf("search: %d hits, k=%d, err=%v", len(hits), store.lastK, err)
	}
}

func TestNewReranker(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.RerankConfig
		wantEnabled bool
		wantChecker bool
	}{
		{"disabled", config.RerankConfig{}, false, false},
		{"tei", config.RerankConfig{Backend: config.RerankTEI, BaseURL: "http://tei:8080"}, true, true},
		{"cohere", config.RerankConfig{Backend: config.RerankCohere, APIKey: "k"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, checker := NewReranker(tt.cfg)
			if svc.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", svc.Enabled(), tt.wantEnabled)
			}
			if (checker != nil) != tt.wantChecker {
				t.Errorf("checker = %v, want present=%v", checker, tt.wantChecker)
			}
		})
	}
}

func TestNewHealth(t *testing.T) {
	srv := newEmbeddingServer(t)
	emb, err := BuildEmbedders(context.Background(), config.EmbeddingConfig{
		Local: config.BackendConfig{BaseURL: srv.URL, Model: "mini"},
	}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildEmbedders: %v", err)
	}
	store := &fakeStore{}
	stores := &Stores{Driver: config.DriverRedis, Vector: store}

	report := NewHealth(stores, emb, nil, zap.NewNop()).Check(context.Background())
	if report.Status != healthuc.Healthy {
		t.Errorf("status = %s, checks = %v", report.Status, report.Checks)
	}

	store.pingErr = errors.New("connection refused")
	report = NewHealth(stores, emb, nil, zap.NewNop()).Check(context.Background())
	if report.Status != healthuc.Unhealthy || report.Checks[healthuc.ComponentVectorStore] != healthuc.CheckError {
		t.Errorf("status = %s, checks = %v", report.Status, report.Checks)
	}
}

func TestCatalogConfig(t *testing.T) {
	redis := CatalogConfig(config.VectorStoreConfig{
		Driver: config.DriverValkey, IndexName: "products_v2", KeyPrefix: "c:",
	})
	if redis.IndexName != "products_v2" || redis.KeyPrefix != "c:" || redis.Driver != "valkey" {
		t.Errorf("valkey = %+v", redis)
	}

	milvus := CatalogConfig(config.VectorStoreConfig{
		Driver:    config.DriverMilvus,
		IndexName: "ignored",
		Milvus:    config.MilvusConfig{Collection: "catalog", VectorField: "embedding"},
	})
	if milvus.IndexName != "catalog" || milvus.VectorField != "embedding" {
		t.Errorf("milvus = %+v", milvus)
	}
}

func TestStores_KV(t *testing.T) {
	s := &Stores{Driver: config.DriverMilvus, Vector: &fakeStore{}}
	if s.KV() != nil {
		t.Error("milvus has no KV store")
	}
}
