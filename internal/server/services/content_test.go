package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/models"
	"github.com/dmitrijs2005/folio/internal/server/repositories/documents"
	"github.com/dmitrijs2005/folio/internal/server/repositories/repomanager"
)

// countingManager counts store listings so cache hits can be observed.
type countingManager struct {
	repomanager.RepositoryManager
	lists atomic.Int64
}

func (m *countingManager) Documents(db dbx.DBTX) documents.Repository {
	return &countingDocs{Repository: m.RepositoryManager.Documents(db), lists: &m.lists}
}

type countingDocs struct {
	documents.Repository
	lists *atomic.Int64
}

func (r *countingDocs) List(ctx context.Context, collection string, order models.Order) ([]models.Document, error) {
	r.lists.Add(1)
	return r.Repository.List(ctx, collection, order)
}

func (r *countingDocs) FindBy(ctx context.Context, collection, field, value string, order models.Order) ([]models.Document, error) {
	r.lists.Add(1)
	return r.Repository.FindBy(ctx, collection, field, value, order)
}

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repomanager.New(dbx.DialectSQLite).RunMigrations(ctx, db))
	return db
}

func newContentService(t *testing.T) (*ContentService, *countingManager) {
	t.Helper()
	db := newSQLiteDB(t)
	rm := &countingManager{RepositoryManager: repomanager.New(dbx.DialectSQLite)}
	s, err := NewContentService(db, rm, &config.Config{CacheSize: 16, Workers: 4}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, rm
}

func TestContentService_UnknownCollection(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	_, err := s.List(ctx, "secrets", models.Order{})
	assert.ErrorIs(t, err, common.ErrorUnknownCollection)
	_, err = s.Create(ctx, "secrets", map[string]any{"a": "b"})
	assert.ErrorIs(t, err, common.ErrorUnknownCollection)
	assert.ErrorIs(t, s.Delete(ctx, "secrets", "x"), common.ErrorUnknownCollection)
}

func TestContentService_CacheHitAndInvalidation(t *testing.T) {
	s, rm := newContentService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, content.Achievements, map[string]any{"title": "CFA L1", "issuer": "CFA", "year": "2024"})
	require.NoError(t, err)

	first, err := s.List(ctx, content.Achievements, models.Order{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.List(ctx, content.Achievements, models.Order{})
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.EqualValues(t, 1, rm.lists.Load(), "second listing must come from cache")

	_, err = s.Create(ctx, content.Achievements, map[string]any{"title": "CA Inter", "issuer": "ICAI", "year": "2023"})
	require.NoError(t, err)

	third, err := s.List(ctx, content.Achievements, models.Order{})
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.EqualValues(t, 2, rm.lists.Load())
}

func TestContentService_FailedWriteKeepsCache(t *testing.T) {
	s, rm := newContentService(t)
	ctx := context.Background()

	_, err := s.List(ctx, content.Projects, models.Order{})
	require.NoError(t, err)

	err = s.Update(ctx, content.Projects, "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.List(ctx, content.Projects, models.Order{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rm.lists.Load())
}

func TestContentService_CachedSliceIsACopy(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, content.Roadmap, map[string]any{"title": "CFA L2"})
	require.NoError(t, err)

	docs, err := s.List(ctx, content.Roadmap, models.Order{})
	require.NoError(t, err)
	docs[0] = models.Document{ID: "tampered"}

	again, err := s.List(ctx, content.Roadmap, models.Order{})
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again[0].ID)
}

func TestContentService_CommentNeedsExistingBlog(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, content.Comments, map[string]any{"blogId": "nope", "text": "hi"})
	assert.ErrorIs(t, err, common.ErrorInvalidReference)

	_, err = s.Create(ctx, content.Comments, map[string]any{"text": "hi"})
	assert.ErrorIs(t, err, common.ErrorInvalidReference)

	blogID, err := s.Create(ctx, content.Blogs, map[string]any{"title": "T", "content": "c"})
	require.NoError(t, err)
	_, err = s.Create(ctx, content.Comments, map[string]any{"blogId": blogID, "text": "hi"})
	assert.NoError(t, err)
}

func TestContentService_DeleteBlogCascadesComments(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, content.Blogs, map[string]any{"title": "keep", "content": "c"})
	require.NoError(t, err)
	drop, err := s.Create(ctx, content.Blogs, map[string]any{"title": "drop", "content": "c"})
	require.NoError(t, err)

	for _, b := range []string{keep, drop, drop} {
		_, err := s.Create(ctx, content.Comments, map[string]any{"blogId": b, "text": "t"})
		require.NoError(t, err)
	}

	// warm the cache so the cascade has to invalidate it
	dropped, err := s.FindBy(ctx, content.Comments, "blogId", drop, models.Order{})
	require.NoError(t, err)
	require.Len(t, dropped, 2)

	require.NoError(t, s.Delete(ctx, content.Blogs, drop))

	dropped, err = s.FindBy(ctx, content.Comments, "blogId", drop, models.Order{})
	require.NoError(t, err)
	assert.Empty(t, dropped)

	kept, err := s.FindBy(ctx, content.Comments, "blogId", keep, models.Order{})
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	_, err = s.Get(ctx, content.Blogs, drop)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestContentService_DeleteMissing(t *testing.T) {
	s, _ := newContentService(t)
	err := s.Delete(context.Background(), content.Projects, "ghost")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestContentService_LoadMany(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, content.Projects, map[string]any{"title": "p"})
	require.NoError(t, err)
	_, err = s.Create(ctx, content.Messages, map[string]any{"name": "n", "timestamp": models.ServerTimestamp})
	require.NoError(t, err)

	res := s.LoadMany(ctx, append([]string{"bogus"}, content.AdminCollections...)...)
	require.Len(t, res, len(content.AdminCollections)+1)

	assert.ErrorIs(t, res["bogus"].Err, common.ErrorUnknownCollection)
	assert.NoError(t, res[content.Projects].Err)
	assert.Len(t, res[content.Projects].Docs, 1)
	assert.Len(t, res[content.Messages].Docs, 1)
	assert.NoError(t, res[content.Donations].Err)
	assert.Empty(t, res[content.Donations].Docs)
}

func TestContentService_UntypedWritesKeepDerivedFields(t *testing.T) {
	s, _ := newContentService(t)
	ctx := context.Background()

	blogID, err := s.Create(ctx, content.Blogs, map[string]any{"title": "T", "content": "short"})
	require.NoError(t, err)
	d, err := s.Get(ctx, content.Blogs, blogID)
	require.NoError(t, err)
	post := content.BlogPostFrom(*d)
	assert.Equal(t, "1 min read", post.ReadTime)
	assert.False(t, post.Date.IsZero(), "create stamps the date")
	assert.Equal(t, content.DefaultCategory, post.Category)

	require.NoError(t, s.Update(ctx, content.Blogs, blogID, map[string]any{"content": strings.Repeat("word ", 450)}))
	d, err = s.Get(ctx, content.Blogs, blogID)
	require.NoError(t, err)
	updated := content.BlogPostFrom(*d)
	assert.Equal(t, "3 min read", updated.ReadTime)
	assert.Equal(t, post.Date, updated.Date, "update keeps the date")

	commentID, err := s.Create(ctx, content.Comments, map[string]any{"blogId": blogID, "text": "hi"})
	require.NoError(t, err)
	d, err = s.Get(ctx, content.Comments, commentID)
	require.NoError(t, err)
	c := content.CommentFrom(*d)
	assert.Equal(t, content.AnonymousCommenter, c.Name)
	assert.False(t, c.Timestamp.IsZero())
}
