package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-backend/internal/domains/post"
)

// ════════════════════════════════════════════════════════════════
// FAKES
// ════════════════════════════════════════════════════════════════

type memoryRepo struct {
	mu        sync.Mutex
	posts     map[string]post.Post
	order     []string
	now       time.Time
	createErr error
	updateErr error
	listErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts: make(map[string]post.Post),
		now:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	doc := *p
	doc.ID = primitive.NewObjectID()
	doc.Date = r.now
	r.posts[doc.ID.Hex()] = doc
	r.order = append(r.order, doc.ID.Hex())
	return &doc, nil
}

func (r *memoryRepo) FindAll(_ context.Context) ([]post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]post.Post, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.posts[id]; ok {
			out = append(out, p)
		}
	}
	if r.listErr != nil {
		if len(out) > 0 {
			out = out[:1]
		}
		return out, r.listErr
	}
	return out, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return &p, nil
}

func (r *memoryRepo) Update(_ context.Context, p *post.Post) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.posts[p.ID.Hex()]; !ok {
		return nil, post.ErrPostNotFound
	}
	r.posts[p.ID.Hex()] = *p
	out := *p
	return &out, nil
}

func (r *memoryRepo) DeleteByID(_ context.Context, id string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	delete(r.posts, id)
	return &p, nil
}

func (r *memoryRepo) CoverPhotos(_ context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	refs := make(map[string]struct{})
	for _, p := range r.posts {
		if p.HasCoverPhoto() {
			refs[*p.CoverPhoto] = struct{}{}
		}
	}
	return refs, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

// staleRepo trả về bản cũ cho FindByID, giống một cache chưa kịp invalidate
type staleRepo struct {
	*memoryRepo
	stale post.Post
}

func (r *staleRepo) FindByID(_ context.Context, _ string) (*post.Post, error) {
	out := r.stale
	return &out, nil
}

type recordingCleaner struct {
	removed []string
	postIDs []string
	err     error
}

func (c *recordingCleaner) Remove(_ context.Context, postID, path string) error {
	c.removed = append(c.removed, path)
	c.postIDs = append(c.postIDs, postID)
	return c.err
}

func newTestService() (*PostService, *memoryRepo, *recordingCleaner) {
	repo := newMemoryRepo()
	cleaner := &recordingCleaner{}
	svc := NewPostService(repo, repo, cleaner).(*PostService)
	return svc, repo, cleaner
}

func validPayload() post.PostPayload {
	return post.PostPayload{Title: "A", Author: "B", Content: "C"}
}

// ════════════════════════════════════════════════════════════════
// CREATE
// ════════════════════════════════════════════════════════════════

func TestCreate_ThenGetReturnsSameFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/a.jpg"})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.Date.IsZero())

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "B", got.Author)
	assert.Equal(t, "C", got.Content)
	require.NotNil(t, got.CoverPhoto)
	assert.Equal(t, "posts/a.jpg", *got.CoverPhoto)
	assert.Equal(t, created.Date, got.Date)
}

func TestCreate_WithoutFileHasNoCover(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), validPayload(), nil)
	require.NoError(t, err)
	assert.Nil(t, created.CoverPhoto)
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload post.PostPayload
		field   string
	}{
		{"missing title", post.PostPayload{Author: "B", Content: "C"}, "title"},
		{"missing content", post.PostPayload{Title: "A", Author: "B"}, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()

			_, err := svc.Create(context.Background(), tt.payload, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, post.ErrValidation)

			var vErr *post.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
			assert.Equal(t, 0, repo.count(), "nothing may be persisted")
		})
	}
}

func TestCreate_StoreRejectionSurfacesRawError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.createErr = errors.New("Document failed validation")

	_, err := svc.Create(context.Background(), validPayload(), nil)

	var pErr *post.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "Document failed validation", err.Error())
}

// ════════════════════════════════════════════════════════════════
// LIST / GET
// ════════════════════════════════════════════════════════════════

func TestList_ReturnsAllInStoreOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, post.PostPayload{Title: "1", Content: "x"}, nil)
	second, _ := svc.Create(ctx, post.PostPayload{Title: "2", Content: "y"}, nil)

	posts := svc.List(ctx)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
}

func TestList_StoreFailureIsSwallowed(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, validPayload(), nil)
	_, _ = svc.Create(ctx, validPayload(), nil)
	repo.listErr = errors.New("cursor killed")

	posts := svc.List(ctx)
	assert.Len(t, posts, 1, "partial result is returned as-is")
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, _, _ := newTestService()
	posts := svc.List(context.Background())
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestGet_UnknownID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	_, err = svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

// ════════════════════════════════════════════════════════════════
// UPDATE
// ════════════════════════════════════════════════════════════════

func TestUpdate_NonExistentID(t *testing.T) {
	svc, repo, cleaner := newTestService()

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.Equal(t, 0, repo.count(), "update must not create a record")
	assert.Empty(t, cleaner.removed)
}

func TestUpdate_NonExistentIDWinsOverValidation(t *testing.T) {
	svc, repo, cleaner := newTestService()

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), post.PostPayload{Content: "x"}, nil)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.NotErrorIs(t, err, post.ErrValidation)
	assert.Equal(t, 404, post.ToHTTPStatus(err))
	assert.Equal(t, 0, repo.count())
	assert.Empty(t, cleaner.removed)
}

func TestUpdate_ReadsOriginalFromStoreNotCache(t *testing.T) {
	repo := newMemoryRepo()
	cleaner := &recordingCleaner{}
	ctx := context.Background()

	created, err := repo.Create(ctx, &post.Post{Title: "A", Content: "C", CoverPhoto: strPtr("posts/current.jpg")})
	require.NoError(t, err)

	stale := *created
	stale.CoverPhoto = strPtr("posts/stale.jpg")
	svc := NewPostService(&staleRepo{memoryRepo: repo, stale: stale}, repo, cleaner)

	_, err = svc.Update(ctx, created.ID.Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/current.jpg"}, cleaner.removed)
	assert.Equal(t, []string{created.ID.Hex()}, cleaner.postIDs)
}

func TestUpdate_ValidationFailureLeavesRecordUntouched(t *testing.T) {
	svc, repo, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/old.jpg"})

	_, err := svc.Update(ctx, created.ID.Hex(), post.PostPayload{Title: "A2"}, &post.UploadedFile{Path: "posts/new.jpg"})
	assert.ErrorIs(t, err, post.ErrValidation)

	stored, _ := repo.FindByID(ctx, created.ID.Hex())
	assert.Equal(t, "posts/old.jpg", *stored.CoverPhoto)
	assert.Empty(t, cleaner.removed)
}

func TestUpdate_NewFileDeletesOnlyPreviousBlob(t *testing.T) {
	svc, _, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/old.jpg"})

	updated, err := svc.Update(ctx, created.ID.Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})
	require.NoError(t, err)

	assert.Equal(t, []string{"posts/old.jpg"}, cleaner.removed)
	require.NotNil(t, updated.CoverPhoto)
	assert.Equal(t, "posts/new.jpg", *updated.CoverPhoto)
}

func TestUpdate_NewFileWithoutPreviousCoverDeletesNothing(t *testing.T) {
	svc, _, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), nil)

	updated, err := svc.Update(ctx, created.ID.Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})
	require.NoError(t, err)
	assert.Empty(t, cleaner.removed)
	assert.Equal(t, "posts/new.jpg", *updated.CoverPhoto)
}

// Update không có file: ảnh cũ không bị xóa khỏi blob store nhưng bị tách khỏi record.
func TestUpdate_WithoutFileDetachesButKeepsBlob(t *testing.T) {
	svc, repo, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/old.jpg"})

	updated, err := svc.Update(ctx, created.ID.Hex(), validPayload(), nil)
	require.NoError(t, err)

	assert.Nil(t, updated.CoverPhoto)
	assert.Empty(t, cleaner.removed)

	stored, _ := repo.FindByID(ctx, created.ID.Hex())
	assert.Nil(t, stored.CoverPhoto)
}

func TestUpdate_BlobDeletionFailureIsNotFatal(t *testing.T) {
	svc, _, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/old.jpg"})
	cleaner.err = errors.New("permission denied")

	updated, err := svc.Update(ctx, created.ID.Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "posts/new.jpg", *updated.CoverPhoto)
}

func TestUpdate_PersistenceFailureKeepsPreviousBlob(t *testing.T) {
	svc, repo, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/old.jpg"})
	repo.updateErr = errors.New("write conflict")

	_, err := svc.Update(ctx, created.ID.Hex(), validPayload(), &post.UploadedFile{Path: "posts/new.jpg"})

	var pErr *post.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Empty(t, cleaner.removed)
}

// ════════════════════════════════════════════════════════════════
// DELETE
// ════════════════════════════════════════════════════════════════

func TestDelete_RemovesRecordAndBlob(t *testing.T) {
	svc, _, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/a.jpg"})

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	assert.Equal(t, []string{"posts/a.jpg"}, cleaner.removed)
	assert.Equal(t, []string{created.ID.Hex()}, cleaner.postIDs)

	_, err := svc.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestDelete_NonExistentIDPerformsNoBlobDeletion(t *testing.T) {
	svc, _, cleaner := newTestService()

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.Empty(t, cleaner.removed)
}

func TestDelete_BlobFailureStillDeletesRecord(t *testing.T) {
	svc, repo, cleaner := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validPayload(), &post.UploadedFile{Path: "posts/a.jpg"})
	cleaner.err = errors.New("disk gone")

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	assert.Equal(t, 0, repo.count())
}

// ════════════════════════════════════════════════════════════════
// SCENARIO
// ════════════════════════════════════════════════════════════════

func TestLifecycleScenario(t *testing.T) {
	svc, _, cleaner := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, post.PostPayload{Title: "A", Author: "B", Content: "C"}, nil)
	require.NoError(t, err)
	assert.Nil(t, created.CoverPhoto)
	id := created.ID.Hex()
	date := created.Date

	updated, err := svc.Update(ctx, id, post.PostPayload{Title: "A2", Author: "B", Content: "C2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "A2", updated.Title)
	assert.Equal(t, "B", updated.Author)
	assert.Equal(t, "C2", updated.Content)
	assert.Nil(t, updated.CoverPhoto)
	assert.Equal(t, date, updated.Date, "date must never change")

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.Empty(t, cleaner.removed)
}

func strPtr(s string) *string { return &s }
