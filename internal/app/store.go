// Package app assembles backends and services from configuration. It is
// shared by the HTTP server, the indexing CLI and the SDK.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/db"
	dbmilvus "github.com/techstore/catalogqa/internal/db/milvus"
	dbredis "github.com/techstore/catalogqa/internal/db/redis"
)

// VectorStore is what the query path needs from a nearest-neighbour store.
type VectorStore interface {
	db.Searcher
	db.Pinger
	Close()
}

// Stores holds the opened backends. Redis is set for the redis and valkey
// drivers only; it also backs the embedding cache and the catalog writer.
type Stores struct {
	Driver string
	Vector VectorStore
	Redis  *dbredis.Store
}

// OpenStores connects the configured vector store and waits until it answers.
func OpenStores(ctx context.Context, cfg config.VectorStoreConfig, logger *zap.Logger) (*Stores, error) {
	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		rs, err := dbredis.NewStore(dbredis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		if err := rs.WaitForReady(ctx, timeout); err != nil {
			rs.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		logger.Info("Connected to vector store",
			zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
		return &Stores{Driver: cfg.Driver, Vector: rs, Redis: rs}, nil

	case config.DriverMilvus:
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ms, err := dbmilvus.NewStore(dialCtx, dbmilvus.Config{
			Address:     cfg.Milvus.Address,
			Username:    cfg.Milvus.Username,
			Password:    cfg.Milvus.Password,
			Collection:  cfg.Milvus.Collection,
			VectorField: cfg.Milvus.VectorField,
			SearchEf:    cfg.Milvus.SearchEf,
		})
		if err != nil {
			return nil, fmt.Errorf("open milvus: %w", err)
		}
		if err := ms.Ping(dialCtx); err != nil {
			ms.Close()
			return nil, fmt.Errorf("milvus not ready: %w", err)
		}
		logger.Info("Connected to vector store",
			zap.String("driver", cfg.Driver),
			zap.String("address", cfg.Milvus.Address),
			zap.String("collection", cfg.Milvus.Collection))
		return &Stores{Driver: cfg.Driver, Vector: ms}, nil

	default:
		return nil, fmt.Errorf("unknown vector store driver %q", cfg.Driver)
	}
}

// KV returns the key-value store for the embedding cache, or nil.
func (s *Stores) KV() db.KVStore {
	if s.Redis == nil {
		return nil
	}
	return s.Redis
}

// Close releases every backend.
func (s *Stores) Close() {
	s.Vector.Close()
}
