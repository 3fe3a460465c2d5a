package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/roamstay/reviewdex/internal/db"
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
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- search.go tests ---

func TestVectorSearch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "review_vector_idx"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("reviewdex:reviews:rev-1"),
			mock.RedisArray(
				mock.RedisString("__score"),
				mock.RedisString("0.11"),
				mock.RedisString("hotel_name"),
				mock.RedisString("Hotel Splendide"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.VectorSearch(context.Background(), &db.VectorQuery{
		IndexName:     "review_vector_idx",
		VectorField:   "embedding",
		Vector:        []float32{0.1, 0.2},
		CandidatePool: 100,
		Limit:         5,
		ReturnFields:  []string{"hotel_name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Entries) != 1 {
		t.Fatalf("unexpected result shape: %+v", result)
	}
	entry := result.Entries[0]
	if entry.Key != "reviewdex:reviews:rev-1" {
		t.Errorf("unexpected key: %s", entry.Key)
	}
	if entry.Distance != 0.11 {
		t.Errorf("Distance = %v, want 0.11", entry.Distance)
	}
	if entry.Fields["hotel_name"] != "Hotel Splendide" {
		t.Errorf("hotel_name = %q", entry.Fields["hotel_name"])
	}
	if _, ok := entry.Fields["__score"]; ok {
		t.Error("distance alias leaked into field map")
	}
}

func TestVectorSearch_PoolNeverBelowLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			// KNN pool raised to the limit: "*=>[KNN 20 @embedding $BLOB AS __score]"
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 20 @embedding $BLOB AS __score]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.VectorSearch(context.Background(), &db.VectorQuery{
		IndexName:     "idx",
		VectorField:   "embedding",
		Vector:        []float32{0.1},
		CandidatePool: 10,
		Limit:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVectorSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.VectorSearch(context.Background(), &db.VectorQuery{
		IndexName:   "idx",
		VectorField: "embedding",
		Vector:      []float32{0.1},
		Limit:       5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestVectorSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.VectorSearch(context.Background(), &db.VectorQuery{
		IndexName:   "idx",
		VectorField: "embedding",
		Vector:      []float32{0.1},
		Limit:       5,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSearch {
		t.Errorf("expected *db.Error with Op FT.SEARCH, got %v", err)
	}
}

func TestVectorSearch_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	s := NewStoreForTest(c)
	ctx := context.Background()

	if _, err := s.VectorSearch(ctx, &db.VectorQuery{VectorField: "v", Vector: []float32{1}, Limit: 1}); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := s.VectorSearch(ctx, &db.VectorQuery{IndexName: "i", VectorField: "v", Limit: 1}); err == nil {
		t.Error("expected error for missing vector")
	}
	if _, err := s.VectorSearch(ctx, &db.VectorQuery{IndexName: "i", VectorField: "v", Vector: []float32{1}}); err == nil {
		t.Error("expected error for non-positive limit")
	}
}

func TestVectorSearchLegacy_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			// Legacy form projects only the distance alias.
			if cmd[0] != "FT.SEARCH" {
				return false
			}
			for i, a := range cmd {
				if a == "RETURN" {
					return cmd[i+1] == "1" && cmd[i+2] == "__score"
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("reviewdex:reviews:rev-1"),
			mock.RedisArray(
				mock.RedisString("__score"),
				mock.RedisString("0.2"),
			),
			mock.RedisString("reviewdex:reviews:rev-2"),
			mock.RedisArray(
				mock.RedisString("__score"),
				mock.RedisString("0.4"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.VectorSearchLegacy(context.Background(), "review_vector_idx", "embedding", []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Distance != 0.2 || result.Entries[1].Distance != 0.4 {
		t.Errorf("unexpected distances: %v, %v", result.Entries[0].Distance, result.Entries[1].Distance)
	}
	// No inline projection in the legacy form.
	if len(result.Entries[0].Fields) != 0 {
		t.Errorf("expected empty fields, got %v", result.Entries[0].Fields)
	}
}

func TestQueryByField_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "@review_id:{rev\\-1}"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("reviewdex:reviews:rev-1"),
			mock.RedisArray(
				mock.RedisString("hotel_name"),
				mock.RedisString("Hotel Splendide"),
				mock.RedisString("review_author"),
				mock.RedisString("Ana"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.QueryByField(context.Background(), &db.FieldQuery{
		IndexName:    "review_vector_idx",
		Field:        "review_id",
		Value:        "rev-1",
		ReturnFields: []string{"hotel_name", "review_author"},
		Limit:        1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Fields["review_author"] != "Ana" {
		t.Errorf("review_author = %q", result.Entries[0].Fields["review_author"])
	}
}

func TestQueryByField_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	s := NewStoreForTest(c)

	if _, err := s.QueryByField(context.Background(), &db.FieldQuery{IndexName: "i"}); err == nil {
		t.Fatal("expected error for missing field/value")
	}
}

// --- json.go tests ---

func TestJSONGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "reviewdex:reviews:rev-1", "$")).
		Return(mock.Result(mock.RedisString(`[{"hotel_name":"Hotel Splendide"}]`)))

	s := NewStoreForTest(c)
	data, err := s.JSONGet(context.Background(), "reviewdex:reviews:rev-1", "$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"hotel_name":"Hotel Splendide"}]` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestJSONGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "missing", "$")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "missing", "$")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

// --- kv.go tests ---

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
