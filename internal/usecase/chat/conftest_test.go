package chat

import (
	"context"
	"testing"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
	"github.com/techstore/catalogqa/internal/usecase/answer"
	"github.com/techstore/catalogqa/internal/usecase/filter"
	"github.com/techstore/catalogqa/internal/usecase/guardrail"
	intentuc "github.com/techstore/catalogqa/internal/usecase/intent"
	"github.com/techstore/catalogqa/internal/usecase/search"
)

// --- Mocks ---

type mockEmbedder struct{ calls int }

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

// mockStore serves a fixed ranking, truncated to k.
type mockStore struct {
	ranking []candidate.Candidate
	err     error
	lastK   int
}

func (m *mockStore) Query(_ context.Context, _ []float32, k int) ([]candidate.Candidate, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(m.ranking) > k {
		return m.ranking[:k], nil
	}
	return m.ranking, nil
}

type fixture struct {
	svc   *Service
	emb   *mockEmbedder
	store *mockStore
}

func newFixture(t *testing.T, ranking []candidate.Candidate, cfg Config) *fixture {
	t.Helper()
	tables, err := config.LoadRules("")
	if err != nil {
		t.Fatalf("load default rules: %v", err)
	}
	emb := &mockEmbedder{}
	store := &mockStore{ranking: ranking}
	svc := New(
		search.New(emb, store, nil, 0),
		guardrail.New(tables.OutOfDomain),
		intentuc.New(tables.Intents),
		filter.New(tables.Filter),
		answer.New(tables.VerboseCues),
		cfg,
	)
	return &fixture{svc: svc, emb: emb, store: store}
}

func chatQuery(t *testing.T, text string, topK int) query.Query {
	t.Helper()
	q, err := query.NewChat(text, topK)
	if err != nil {
		t.Fatalf("query.NewChat: %v", err)
	}
	return q
}

func item(id string, pid int64, name, category, spec string, price float64) candidate.Candidate {
	return candidate.New(id, name+". "+spec, candidate.Metadata{
		ProductID: pid, HasProductID: true,
		Name: name, CategoryName: category, SpecText: spec, Price: price,
	}, 0.5)
}
