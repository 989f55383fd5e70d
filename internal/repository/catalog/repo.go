// Package catalog reads and writes product chunks in the vector store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/metrics"
)

// Defaults for the catalog index layout.
const (
	DefaultIndexName = "products"
	DefaultKeyPrefix = "catalog:chunk:"
)

// Config locates the catalog inside the store.
type Config struct {
	// Driver labels metrics: redis, valkey or milvus.
	Driver    string
	IndexName string
	KeyPrefix string
	// VectorField names the embedding field; defaults to FieldVector.
	VectorField string
}

func (c *Config) applyDefaults() {
	if c.IndexName == "" {
		c.IndexName = DefaultIndexName
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.VectorField == "" {
		c.VectorField = FieldVector
	}
}

// Repo implements the vector store client consumed by the search service.
type Repo struct {
	store db.Searcher
	cfg   Config
}

// New creates a catalog repository over any KNN-capable store.
func New(store db.Searcher, cfg Config) *Repo {
	cfg.applyDefaults()
	return &Repo{store: store, cfg: cfg}
}

// Query returns up to k candidates nearest to vector, best first.
func (r *Repo) Query(ctx context.Context, vector []float32, k int) ([]candidate.Candidate, error) {
	if k <= 0 {
		return []candidate.Candidate{}, nil
	}

	start := time.Now()
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  r.cfg.VectorField,
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.VectorStoreDuration.WithLabelValues(r.cfg.Driver, status).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("knn %s: %w", r.cfg.IndexName, err)
		}
		return nil, fmt.Errorf("knn %s: %w: %w", r.cfg.IndexName, domain.ErrVectorStoreUnavailable, err)
	}

	out := make([]candidate.Candidate, 0, min(len(res.Entries), k))
	for _, e := range res.Entries {
		if len(out) == k {
			break
		}
		out = append(out, entryToCandidate(e, r.cfg.KeyPrefix))
	}
	return out, nil
}
