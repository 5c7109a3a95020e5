package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return data, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(_ context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	if s.delErr != nil {
		return s.delErr
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func testCache(store Store) *Cache {
	return New(store, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetOrLoad_MissThenHit(t *testing.T) {
	store := newFakeStore()
	c := testCache(store)

	calls := 0
	loader := func(context.Context) (string, error) {
		calls++
		return "loaded", nil
	}

	got, err := GetOrLoad(context.Background(), c, "k", 0, loader)
	require.NoError(t, err)
	assert.Equal(t, "loaded", got)
	assert.Equal(t, 1, calls)

	got, err = GetOrLoad(context.Background(), c, "k", 0, loader)
	require.NoError(t, err)
	assert.Equal(t, "loaded", got)
	assert.Equal(t, 1, calls, "second read should be served from cache")
}

func TestGetOrLoad_LoaderErrorPropagatesUncached(t *testing.T) {
	store := newFakeStore()
	c := testCache(store)

	wantErr := errors.New("store down")
	_, err := GetOrLoad(context.Background(), c, "k", 0, func(context.Context) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, store.data, "failed loads must not be cached")
}

func TestGetOrLoad_StoreErrorsDegradeToMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis unavailable")
	store.setErr = errors.New("redis unavailable")
	c := testCache(store)

	got, err := GetOrLoad(context.Background(), c, "k", 0, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err, "cache failures must never reach the caller")
	assert.Equal(t, 42, got)
}

func TestGetOrLoad_CorruptEntryReloads(t *testing.T) {
	store := newFakeStore()
	store.data["k"] = []byte("{not json")
	c := testCache(store)

	got, err := GetOrLoad(context.Background(), c, "k", 0, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.JSONEq(t, "7", string(store.data["k"]), "corrupt entry should be overwritten")
}

func TestGetOrLoad_UnencodableValueSkipsWrite(t *testing.T) {
	store := newFakeStore()
	c := testCache(store)

	got, err := GetOrLoad(context.Background(), c, "k", 0, func(context.Context) (chan int, error) {
		return make(chan int), nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.NotContains(t, store.data, "k", "unencodable value must not be cached")
}

func TestInvalidate(t *testing.T) {
	store := newFakeStore()
	store.data["a"] = []byte("1")
	store.data["b"] = []byte("2")
	c := testCache(store)

	c.Invalidate(context.Background(), "a", "b")
	assert.Empty(t, store.data)
	assert.Equal(t, []string{"a", "b"}, store.deleted)
}

func TestInvalidate_SwallowsErrors(t *testing.T) {
	store := newFakeStore()
	store.delErr = errors.New("redis unavailable")
	c := testCache(store)

	assert.NotPanics(t, func() {
		c.Invalidate(context.Background(), "a")
	})
}
