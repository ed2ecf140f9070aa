package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-backend/internal/domains/post"
)

type memCache struct {
	data   map[string][]byte
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	var n int64
	if raw, ok := m.data[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, _ := json.Marshal(n)
	m.data[key] = raw
	return n, nil
}

func (m *memCache) Ping(_ context.Context) error { return nil }

type countingRepo struct {
	post.Repository
	doc       *post.Post
	findCalls int
	// afterRead chạy sau khi FindByID đã đọc document, trước khi trả về
	afterRead func()
}

func (r *countingRepo) FindByID(_ context.Context, id string) (*post.Post, error) {
	r.findCalls++
	if r.doc == nil || r.doc.ID.Hex() != id {
		return nil, post.ErrPostNotFound
	}
	out := *r.doc
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return &out, nil
}

func (r *countingRepo) Update(_ context.Context, p *post.Post) (*post.Post, error) {
	r.doc = p
	return p, nil
}

func (r *countingRepo) DeleteByID(_ context.Context, id string) (*post.Post, error) {
	if r.doc == nil || r.doc.ID.Hex() != id {
		return nil, post.ErrPostNotFound
	}
	d := r.doc
	r.doc = nil
	return d, nil
}

func TestCachedRepository_FindByIDIsCacheAside(t *testing.T) {
	doc := &post.Post{ID: primitive.NewObjectID(), Title: "A", Content: "C", Date: time.Now().UTC().Truncate(time.Millisecond)}
	next := &countingRepo{doc: doc}
	c := newMemCache()
	repo := NewCachedRepository(next, c, time.Minute)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, doc.ID.Hex())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, doc.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, 1, next.findCalls)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
	assert.Contains(t, c.data, "post:"+doc.ID.Hex())
}

func TestCachedRepository_DeleteDuringReadIsNotResurrected(t *testing.T) {
	doc := &post.Post{ID: primitive.NewObjectID(), Title: "A", Content: "C"}
	next := &countingRepo{doc: doc}
	c := newMemCache()
	repo := NewCachedRepository(next, c, time.Minute)
	ctx := context.Background()
	id := doc.ID.Hex()

	next.afterRead = func() {
		_, err := repo.DeleteByID(ctx, id)
		require.NoError(t, err)
	}

	// Reader đã đọc bản cũ trước khi delete chạy
	stale, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", stale.Title)
	assert.NotContains(t, c.data, "post:"+id)

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestCachedRepository_UpdateDuringReadKeepsFreshCopy(t *testing.T) {
	doc := &post.Post{ID: primitive.NewObjectID(), Title: "A", Content: "C"}
	next := &countingRepo{doc: doc}
	c := newMemCache()
	repo := NewCachedRepository(next, c, time.Minute)
	ctx := context.Background()
	id := doc.ID.Hex()

	next.afterRead = func() {
		changed := *doc
		changed.Title = "A2"
		_, err := repo.Update(ctx, &changed)
		require.NoError(t, err)
	}

	_, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Title)
}

func TestCachedRepository_MissIsNotCached(t *testing.T) {
	next := &countingRepo{}
	c := newMemCache()
	repo := NewCachedRepository(next, c, time.Minute)

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.Empty(t, c.data)
}

func TestCachedRepository_UpdateAndDeleteInvalidate(t *testing.T) {
	doc := &post.Post{ID: primitive.NewObjectID(), Title: "A", Content: "C"}
	next := &countingRepo{doc: doc}
	c := newMemCache()
	repo := NewCachedRepository(next, c, time.Minute)
	ctx := context.Background()
	key := "post:" + doc.ID.Hex()

	_, _ = repo.FindByID(ctx, doc.ID.Hex())
	require.Contains(t, c.data, key)

	changed := *doc
	changed.Title = "A2"
	_, err := repo.Update(ctx, &changed)
	require.NoError(t, err)
	assert.NotContains(t, c.data, key)

	got, err := repo.FindByID(ctx, doc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Title)

	_, err = repo.DeleteByID(ctx, doc.ID.Hex())
	require.NoError(t, err)
	assert.NotContains(t, c.data, key)

	_, err = repo.FindByID(ctx, doc.ID.Hex())
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestCachedRepository_CacheFailureDoesNotFailRead(t *testing.T) {
	doc := &post.Post{ID: primitive.NewObjectID(), Title: "A", Content: "C"}
	c := newMemCache()
	c.setErr = errors.New("redis down")
	repo := NewCachedRepository(&countingRepo{doc: doc}, c, time.Minute)

	got, err := repo.FindByID(context.Background(), doc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}
