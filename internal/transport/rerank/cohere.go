package rerank

import (
	"context"
	"net/http"
	"time"
)

// DefaultCohereBaseURL is the public Cohere API.
const DefaultCohereBaseURL = "https://api.cohere.com"

// CohereConfig configures a Cohere-compatible /v1/rerank API.
type CohereConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Cohere scores pairs with POST /v1/rerank.
type Cohere struct {
	c     httpClient
	model string
}

// NewCohere creates a Cohere rerank client.
func NewCohere(cfg CohereConfig) *Cohere {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCohereBaseURL
	}
	return &Cohere{c: newHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout), model: cfg.Model}
}

type cohereRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type cohereResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Score returns one relevance score per text, in input order.
func (c *Cohere) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}
	var resp cohereResponse
	if err := c.c.do(ctx, http.MethodPost, "/v1/rerank", cohereRequest{
		Model:     c.model,
		Query:     query,
		Documents: texts,
		TopN:      len(texts),
	}, &resp); err != nil {
		return nil, err
	}

	indexes := make([]int, len(resp.Results))
	scores := make([]float64, len(resp.Results))
	for i, r := range resp.Results {
		indexes[i] = r.Index
		scores[i] = r.RelevanceScore
	}
	return scatter(len(texts), indexes, scores)
}
