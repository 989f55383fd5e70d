// Package milvus implements db.Searcher on a Milvus collection.
package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/techstore/catalogqa/internal/db"
)

var tracer = otel.Tracer("catalogqa/milvus")

var (
	_ db.Searcher = (*Store)(nil)
	_ db.Pinger   = (*Store)(nil)
)

// DefaultSearchEf is the HNSW ef used when Config.SearchEf is zero.
const DefaultSearchEf = 64

// Config holds connection and collection parameters.
type Config struct {
	Address     string
	Username    string
	Password    string
	Collection  string
	VectorField string
	SearchEf    int
}

// milvusClient is the subset of client.Client the store calls.
type milvusClient interface {
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string,
		vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int,
		sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	HasCollection(ctx context.Context, collName string) (bool, error)
	Close() error
}

// Store queries one Milvus collection indexed with the COSINE metric.
type Store struct {
	client milvusClient
	cfg    Config
}

// NewStore connects to Milvus.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	c, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus: %w", err)
	}
	return newStore(c, cfg), nil
}

func newStore(c milvusClient, cfg Config) *Store {
	if cfg.VectorField == "" {
		cfg.VectorField = "vector"
	}
	if cfg.SearchEf <= 0 {
		cfg.SearchEf = DefaultSearchEf
	}
	return &Store{client: c, cfg: cfg}
}

// Ping verifies the configured collection exists.
func (s *Store) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.Ping",
		trace.WithAttributes(attribute.String("collection", s.cfg.Collection)))
	defer span.End()

	ok, err := s.client.HasCollection(ctx, s.cfg.Collection)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &db.Error{Op: db.OpCollection, Err: err}
	}
	if !ok {
		return &db.Error{Op: db.OpCollection, Err: fmt.Errorf("collection %q not found", s.cfg.Collection)}
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close() {
	_ = s.client.Close()
}

// SearchKNN runs a COSINE similarity search. q.IndexName overrides the configured collection.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	collection := s.cfg.Collection
	if q.IndexName != "" {
		collection = q.IndexName
	}
	field := s.cfg.VectorField
	if q.VectorField != "" {
		field = q.VectorField
	}

	ctx, span := tracer.Start(ctx, "milvus.SearchKNN",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.Int("k", q.K),
		))
	defer span.End()

	sp, err := entity.NewIndexHNSWSearchParam(s.cfg.SearchEf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search param: %w", err)
	}

	results, err := s.client.Search(ctx,
		collection,
		nil,
		"",
		q.ReturnFields,
		[]entity.Vector{entity.FloatVector(q.Vector)},
		field,
		entity.COSINE,
		q.K,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	out := &db.SearchResult{}
	for _, r := range results {
		for i := 0; i < r.ResultCount; i++ {
			entry := db.SearchEntry{Fields: make(map[string]string, len(q.ReturnFields))}
			if r.IDs != nil {
				if id, err := r.IDs.Get(i); err == nil {
					entry.Key = stringify(id)
				}
			}
			if i < len(r.Scores) {
				entry.Score = float64(r.Scores[i])
			}
			for _, name := range q.ReturnFields {
				col := r.Fields.GetColumn(name)
				if col == nil {
					continue
				}
				if v, err := col.Get(i); err == nil {
					entry.Fields[name] = stringify(v)
				}
			}
			out.Entries = append(out.Entries, entry)
		}
	}
	out.Total = len(out.Entries)

	span.SetAttributes(attribute.Int("result_count", out.Total))
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
