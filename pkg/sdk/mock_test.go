package catalogqa

import (
	"context"

	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	fn    func(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
	lastQ query.Query
}

func (m *mockSearchUC) Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error) {
	m.lastQ = q
	return m.fn(ctx, q)
}

// --- chatUseCase mock ---

type mockChatUC struct {
	fn    func(ctx context.Context, q query.Query) (chatuc.Result, error)
	lastQ query.Query
}

func (m *mockChatUC) Chat(ctx context.Context, q query.Query) (chatuc.Result, error) {
	m.lastQ = q
	return m.fn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }
func (m *mockStore) Close()                       { m.closed = true }

// --- Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type checkingEmbedder struct {
	mockEmbedder
	err error
}

func (c *checkingEmbedder) HealthCheck(_ context.Context) error { return c.err }
