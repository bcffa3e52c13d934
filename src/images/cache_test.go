package images

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memStore struct {
	imgs  map[string]Image
	lists int
}

func newMemStore(imgs ...Image) *memStore {
	s := &memStore{imgs: make(map[string]Image)}
	for _, img := range imgs {
		s.imgs[img.ID] = img
	}
	return s
}

func (s *memStore) GetImage(id string) (*Image, error) {
	img, ok := s.imgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &img, nil
}

func (s *memStore) ListSelectable() ([]Image, error) {
	s.lists++
	var res []Image
	for _, img := range s.imgs {
		if img.Selectable() {
			res = append(res, img)
		}
	}
	return res, nil
}

func (s *memStore) UpdateRatingFields(id string, fields RatingFields) error {
	img, ok := s.imgs[id]
	if !ok {
		return ErrNotFound
	}
	img.RatingScore = fields.RatingScore
	img.TotalRatings = fields.TotalRatings
	img.LikeCount = fields.LikeCount
	img.DislikeCount = fields.DislikeCount
	s.imgs[id] = img
	return nil
}

func (s *memStore) RecordVote(event *VoteEvent) error {
	return nil
}

type fakeRedis struct {
	data    map[string]string
	lastTTL time.Duration
	dels    int
	failing bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failing {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.failing {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	f.dels++
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func selectableImage(id string, score int) Image {
	return Image{
		ID:            id,
		Title:         id,
		CloudinaryURL: "https://res.cloudinary.com/alice/" + id + ".jpg",
		Weather:       "Sunny",
		TimePeriod:    "Morning",
		RatingScore:   score,
	}
}

func TestCachedStoreListReadThrough(t *testing.T) {
	store := newMemStore(selectableImage("a", 1), selectableImage("b", 2))
	rdb := newFakeRedis()
	cached := NewCachedStore(store, rdb, 60*time.Second)

	imgs, err := cached.ListSelectable()
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 2 {
		t.Fatalf("expected 2 selectable images, got %d", len(imgs))
	}
	if store.lists != 1 {
		t.Errorf("first list should hit the store once, got %d", store.lists)
	}
	if _, ok := rdb.data[selectableKey]; !ok {
		t.Error("first list should populate the cache")
	}
	if rdb.lastTTL != 60*time.Second {
		t.Errorf("cache entry should carry the configured TTL, got %v", rdb.lastTTL)
	}

	imgs, err = cached.ListSelectable()
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 2 {
		t.Fatalf("expected 2 images from cache, got %d", len(imgs))
	}
	if store.lists != 1 {
		t.Errorf("second list should be served from cache, store saw %d reads", store.lists)
	}
}

// A rating write must invalidate the cached list so the next selection sees
// the fresh score instead of a stale snapshot.
func TestCachedStoreInvalidatesOnRatingWrite(t *testing.T) {
	store := newMemStore(selectableImage("a", 1))
	rdb := newFakeRedis()
	cached := NewCachedStore(store, rdb, 60*time.Second)

	if _, err := cached.ListSelectable(); err != nil {
		t.Fatal(err)
	}

	err := cached.UpdateRatingFields("a", RatingFields{
		RatingScore:  2,
		TotalRatings: 2,
		LikeCount:    2,
		DislikeCount: 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := rdb.data[selectableKey]; ok {
		t.Error("a rating write must invalidate the cached selectable list")
	}
	if rdb.dels == 0 {
		t.Error("expected the cache key to be deleted")
	}

	imgs, err := cached.ListSelectable()
	if err != nil {
		t.Fatal(err)
	}
	if store.lists != 2 {
		t.Errorf("list after invalidation should hit the store again, saw %d reads", store.lists)
	}
	if len(imgs) != 1 || imgs[0].RatingScore != 2 {
		t.Errorf("expected the fresh score 2 after invalidation, got %+v", imgs)
	}
}

func TestCachedStoreUnknownImageWrite(t *testing.T) {
	store := newMemStore(selectableImage("a", 1))
	rdb := newFakeRedis()
	cached := NewCachedStore(store, rdb, 60*time.Second)

	if _, err := cached.ListSelectable(); err != nil {
		t.Fatal(err)
	}

	err := cached.UpdateRatingFields("nope", RatingFields{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from the wrapped store, got %v", err)
	}
	if _, ok := rdb.data[selectableKey]; !ok {
		t.Error("a failed write should leave the cached list in place")
	}
}

// The wrapped store is the source of truth: a dead redis degrades to plain
// store reads instead of failing the request.
func TestCachedStoreSurvivesRedisFailure(t *testing.T) {
	store := newMemStore(selectableImage("a", 1), selectableImage("b", 2))
	rdb := newFakeRedis()
	rdb.failing = true
	cached := NewCachedStore(store, rdb, 60*time.Second)

	imgs, err := cached.ListSelectable()
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 2 {
		t.Fatalf("expected 2 images straight from the store, got %d", len(imgs))
	}
	if store.lists != 1 {
		t.Errorf("expected the store to serve the list, saw %d reads", store.lists)
	}
}
