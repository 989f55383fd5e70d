package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain"
)

// Backend is an embedding backend that can be probed before use.
type Backend interface {
	domain.Embedder
	Probe(ctx context.Context) (int, error)
	Provider() string
	Model() string
}

// Selection is the backend chosen at startup and the vector size it reported.
type Selection struct {
	Backend Backend
	Dim     int
}

// Select picks the local backend when its probe succeeds, else the remote
// one. Either may be nil when not configured. The remote backend is probed
// too, so a bad key fails at startup rather than on the first query.
func Select(ctx context.Context, local, remote Backend, logger *zap.Logger) (Selection, error) {
	if local != nil {
		dim, err := local.Probe(ctx)
		if err == nil {
			logger.Info("Using local embedding backend",
				zap.String("model", local.Model()), zap.Int("dimensions", dim))
			return Selection{Backend: local, Dim: dim}, nil
		}
		logger.Warn("Local embedding backend unavailable", zap.String("model", local.Model()), zap.Error(err))
	}

	if remote != nil {
		dim, err := remote.Probe(ctx)
		if err != nil {
			return Selection{}, fmt.Errorf("remote embedding backend %s: %w: %w", remote.Model(), domain.ErrNoEmbeddingBackend, err)
		}
		logger.Info("Using remote embedding backend",
			zap.String("model", remote.Model()), zap.Int("dimensions", dim))
		return Selection{Backend: remote, Dim: dim}, nil
	}

	return Selection{}, domain.ErrNoEmbeddingBackend
}
