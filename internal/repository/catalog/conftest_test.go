package catalog

import (
	"context"

	"github.com/techstore/catalogqa/internal/db"
)

// mockStore implements db.Searcher and writeStore for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	lastKNN  *db.KNNQuery

	exists    bool
	existsErr error
	createErr error
	dropErr   error
	hsetErr   error
	created   *db.IndexDefinition
	dropped   bool
	items     []db.HashSetItem
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNN = q
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.created = def
	return m.createErr
}

func (m *mockStore) DropIndex(_ context.Context, _ string) error {
	m.dropped = true
	return m.dropErr
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.items = append(m.items, items...)
	return m.hsetErr
}
