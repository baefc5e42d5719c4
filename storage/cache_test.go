package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"duoboard/domain"
)

type stubBackend struct {
	board      domain.Board
	info       []domain.InfoItem
	boardCalls int
	infoCalls  int
	saveErr    error
	loadErr    error
	saved      *domain.Board
}

func (s *stubBackend) LoadBoard(ctx context.Context) (domain.Board, error) {
	s.boardCalls++
	if s.loadErr != nil {
		return domain.Board{}, s.loadErr
	}
	return s.board.Clone(), nil
}

func (s *stubBackend) SaveBoard(ctx context.Context, b domain.Board) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := b.Clone()
	s.saved = &cp
	return nil
}

func (s *stubBackend) LoadInfo(ctx context.Context) ([]domain.InfoItem, error) {
	s.infoCalls++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.InfoItem(nil), s.info...), nil
}

func (s *stubBackend) SaveInfo(ctx context.Context, items []domain.InfoItem) error {
	return s.saveErr
}

func newCacheFixture(t *testing.T) (*miniredis.Miniredis, *stubBackend, *Cache) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	stub := &stubBackend{board: testBoard(), info: domain.SeedInfo()}
	return mr, stub, NewCache(stub, client, time.Minute)
}

func TestCacheLoadBoardMissThenHit(t *testing.T) {
	mr, stub, cache := newCacheFixture(t)
	ctx := context.Background()

	first, err := cache.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := cache.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if stub.boardCalls != 1 {
		t.Fatalf("expected 1 backend call, got %d", stub.boardCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cache hit returned a different board")
	}
	if ttl := mr.TTL(cacheKey(BoardRecord)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}
}

func TestCacheSaveEvicts(t *testing.T) {
	mr, stub, cache := newCacheFixture(t)
	ctx := context.Background()

	if _, err := cache.LoadBoard(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if !mr.Exists(cacheKey(BoardRecord)) {
		t.Fatal("expected cached board key")
	}

	changed := stub.board.Clone()
	changed.AddCard("todo", "Fresh card", domain.AssigneeNone, nil)
	if err := cache.SaveBoard(ctx, changed); err != nil {
		t.Fatalf("save board: %v", err)
	}
	if mr.Exists(cacheKey(BoardRecord)) {
		t.Fatal("expected board key evicted after save")
	}
	if stub.saved == nil || len(stub.saved.Cards) != len(changed.Cards) {
		t.Fatal("expected save to reach base backend")
	}
}

func TestCacheSaveErrorSkipsEviction(t *testing.T) {
	mr, stub, cache := newCacheFixture(t)
	ctx := context.Background()

	if _, err := cache.LoadBoard(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	stub.saveErr = errors.New("backend down")
	if err := cache.SaveBoard(ctx, stub.board); err == nil {
		t.Fatal("expected save error to propagate")
	}
	if !mr.Exists(cacheKey(BoardRecord)) {
		t.Fatal("failed save must not evict the cached record")
	}
}

func TestCacheCorruptEntryFallsBack(t *testing.T) {
	mr, stub, cache := newCacheFixture(t)
	ctx := context.Background()

	mr.Set(cacheKey(InfoRecord), "{definitely not json")
	items, err := cache.LoadInfo(ctx)
	if err != nil {
		t.Fatalf("load info: %v", err)
	}
	if stub.infoCalls != 1 {
		t.Fatalf("expected fallback to backend, got %d calls", stub.infoCalls)
	}
	if !reflect.DeepEqual(items, domain.SeedInfo()) {
		t.Fatalf("unexpected items: %#v", items)
	}

	// The corrupt key was dropped and repopulated by the read-through.
	if _, err := cache.LoadInfo(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if stub.infoCalls != 1 {
		t.Fatalf("expected repopulated cache to serve the second load, got %d calls", stub.infoCalls)
	}
}

func TestCacheRedisDownDegrades(t *testing.T) {
	mr, stub, cache := newCacheFixture(t)
	mr.Close()

	if _, err := cache.LoadBoard(context.Background()); err != nil {
		t.Fatalf("expected load to degrade to backend, got %v", err)
	}
	if stub.boardCalls != 1 {
		t.Fatalf("expected backend call, got %d", stub.boardCalls)
	}
}

func TestCacheNotFoundPassesThrough(t *testing.T) {
	_, stub, cache := newCacheFixture(t)
	stub.loadErr = ErrNotFound
	if _, err := cache.LoadBoard(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheNilClientDisablesCaching(t *testing.T) {
	stub := &stubBackend{board: testBoard()}
	cache := NewCache(stub, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cache.LoadBoard(ctx); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if stub.boardCalls != 2 {
		t.Fatalf("expected every load to hit the backend, got %d", stub.boardCalls)
	}
}
