package rerank

import (
	"context"
	"net/http"
	"time"
)

// TEIConfig configures a text-embeddings-inference rerank server.
type TEIConfig struct {
	BaseURL string
	// Truncate lets the server cut texts longer than the model window.
	Truncate bool
	Timeout  time.Duration
}

// TEI scores pairs with POST /rerank on a TEI server.
type TEI struct {
	c        httpClient
	truncate bool
}

// NewTEI creates a TEI rerank client.
func NewTEI(cfg TEIConfig) *TEI {
	return &TEI{c: newHTTPClient(cfg.BaseURL, "", cfg.Timeout), truncate: cfg.Truncate}
}

type teiRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
	Truncate  bool     `json:"truncate"`
}

type teiResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Score returns one score per text, in input order.
func (t *TEI) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}
	var results []teiResult
	if err := t.c.do(ctx, http.MethodPost, "/rerank", teiRequest{
		Query:    query,
		Texts:    texts,
		Truncate: t.truncate,
	}, &results); err != nil {
		return nil, err
	}

	indexes := make([]int, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		indexes[i] = r.Index
		scores[i] = r.Score
	}
	return scatter(len(texts), indexes, scores)
}

// HealthCheck calls GET /health.
func (t *TEI) HealthCheck(ctx context.Context) error {
	return t.c.do(ctx, http.MethodGet, "/health", nil, nil)
}
