package redis

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/techstore/catalogqa/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

// --- hash.go tests ---

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisInt64(2)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "catalog:chunk:p1_c0", Fields: map[string]string{"name": "ASUS TUF"}},
		{Key: "catalog:chunk:p1_c1", Fields: map[string]string{"name": "ASUS TUF"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"a": "1"}},
		{Key: "k2", Fields: map[string]string{"a": "2"}},
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "k")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name":  mock.RedisString("Samsung Galaxy S24"),
			"price": mock.RedisString("22990000"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["name"] != "Samsung Galaxy S24" || m["price"] != "22990000" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "k")).
		Return(mock.Result(mock.RedisArray()))

	s := NewStoreForTest(c)
	if _, err := s.HGetAll(context.Background(), "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDel_MultipleKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "a", "b")).
		Return(mock.Result(mock.RedisInt64(2)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Del(context.Background()); err != nil {
		t.Fatalf("empty Del must be a no-op: %v", err)
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "emb:1")).
		Return(mock.Result(mock.RedisString("payload")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "emb:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "emb:1")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	if _, err := s.Get(context.Background(), "emb:1"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	def, err := db.NewIndex("products").
		Prefix("catalog:chunk:").
		Numeric("product_id").
		VectorHNSW("vector", 4, db.DistanceCosine, 16, 0).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"FT.CREATE", "products", "ON", "HASH", "PREFIX", "1", "catalog:chunk:", "SCHEMA",
		"product_id", "NUMERIC",
		"vector", "VECTOR", "HNSW", "8", "TYPE", "FLOAT32", "DIM", "4", "DISTANCE_METRIC", "COSINE", "M", "16",
	}
	if !slices.Equal(got, want) {
		t.Errorf("command = %v\nwant      %v", got, want)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := &db.IndexDefinition{Name: "products", Fields: []db.IndexField{{Name: "brand", Type: db.IndexFieldTag}}}
	if err := s.CreateIndex(context.Background(), def); !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "x"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "products")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "products"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "products")).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("products")))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "products")).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "products")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
	)

	s := NewStoreForTest(c)
	ctx := context.Background()
	if ok, err := s.IndexExists(ctx, "products"); err != nil || !ok {
		t.Errorf("first probe = %v, %v; want true", ok, err)
	}
	if ok, err := s.IndexExists(ctx, "products"); err != nil || ok {
		t.Errorf("second probe = %v, %v; want false", ok, err)
	}
	if _, err := s.IndexExists(ctx, "products"); !isDBError(err) {
		t.Errorf("third probe must fail with db.Error, got %v", err)
	}
}

// --- search.go tests ---

func TestSearchKNN_ConvertsDistanceAndSorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisString("catalog:chunk:p2_c0"),
			mock.RedisArray(
				mock.RedisString("name"), mock.RedisString("Dell Inspiron"),
				mock.RedisString("__vector_score"), mock.RedisString("0.4"),
			),
			mock.RedisString("catalog:chunk:p1_c0"),
			mock.RedisArray(
				mock.RedisString("name"), mock.RedisString("ASUS TUF"),
				mock.RedisString("__vector_score"), mock.RedisString("0.1"),
			),
			mock.RedisString("catalog:chunk:p3_c0"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("1.3"),
			),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "products",
		Vector:       []float32{0.1, 0.2},
		K:            3,
		ReturnFields: []string{"name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[1] != "products" || got[2] != "*=>[KNN 3 @vector $BLOB]" {
		t.Errorf("query = %v", got[:3])
	}
	if !slices.Contains(got, "__vector_score") {
		t.Error("score field must be returned")
	}

	if res.Total != 3 || len(res.Entries) != 3 {
		t.Fatalf("total=%d entries=%d", res.Total, len(res.Entries))
	}
	wantKeys := []string{"catalog:chunk:p1_c0", "catalog:chunk:p2_c0", "catalog:chunk:p3_c0"}
	wantScores := []float64{0.9, 0.6, -0.3}
	for i, e := range res.Entries {
		if e.Key != wantKeys[i] {
			t.Errorf("entry %d key = %s, want %s", i, e.Key, wantKeys[i])
		}
		if math.Abs(e.Score-wantScores[i]) > 1e-9 {
			t.Errorf("entry %d score = %v, want %v", i, e.Score, wantScores[i])
		}
		if _, ok := e.Fields["__vector_score"]; ok {
			t.Errorf("entry %d still carries the raw distance", i)
		}
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "products", Vector: []float32{1}, K: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(res.Entries))
	}
}

func TestSearchKNN_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "products", Vector: []float32{1}, K: 5})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	ctx := context.Background()
	for name, q := range map[string]*db.KNNQuery{
		"no index":  {Vector: []float32{1}, K: 1},
		"no vector": {IndexName: "products", K: 1},
		"zero k":    {IndexName: "products", Vector: []float32{1}},
	} {
		if _, err := s.SearchKNN(ctx, q); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func isDBError(err error) bool {
	var e *db.Error
	return errors.As(err, &e)
}
