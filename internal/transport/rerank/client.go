// Package rerank holds HTTP clients for cross-encoder rerank services: a
// local text-embeddings-inference (TEI) server and a Cohere-compatible API.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/techstore/catalogqa/internal/domain"
)

// DefaultTimeout bounds one rerank call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept in the error text.
const maxErrorBody = 512

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newHTTPClient(baseURL, apiKey string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends a JSON request and decodes a JSON response into out.
// Every failure wraps domain.ErrRerankerUnavailable.
func (c httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w: %w", domain.ErrRerankerUnavailable, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrRerankerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s returned %d: %s: %w",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrRerankerUnavailable)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", path, domain.ErrRerankerUnavailable, err)
	}
	return nil
}

// scatter places (index, score) pairs back into input order. Every index must
// be in range and appear exactly once.
func scatter(n int, indexes []int, scores []float64) ([]float64, error) {
	if len(indexes) != n {
		return nil, fmt.Errorf("got %d scores for %d texts: %w", len(indexes), n, domain.ErrRerankerUnavailable)
	}
	out := make([]float64, n)
	seen := make([]bool, n)
	for i, idx := range indexes {
		if idx < 0 || idx >= n || seen[idx] {
			return nil, fmt.Errorf("bad result index %d: %w", idx, domain.ErrRerankerUnavailable)
		}
		seen[idx] = true
		out[idx] = scores[i]
	}
	return out, nil
}
