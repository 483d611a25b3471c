// Package services contains server-side business logic shared by the web
// handlers, the gRPC API and background jobs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/models"
	"github.com/dmitrijs2005/folio/internal/server/repositories/documents"
	"github.com/dmitrijs2005/folio/internal/server/repositories/repomanager"
)

// ContentService is the single read/write path to the content store.
//
// Listings are cached per (collection, filter, order). Every successful
// write drops the cached listings of the collections it touched; failed
// writes leave the cache alone.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	cache *lru.Cache[string, []models.Document]
	pool  *ants.Pool

	// gen is bumped on every invalidation so that a listing fetched
	// before a write is not cached after it.
	mu  sync.Mutex
	gen map[string]uint64
}

// LoadResult is the outcome of loading one collection in LoadMany.
type LoadResult struct {
	Docs []models.Document
	Err  error
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*ContentService, error) {
	cache, err := lru.New[string, []models.Document](max(cfg.CacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}
	pool, err := ants.NewPool(max(cfg.Workers, 1))
	if err != nil {
		return nil, fmt.Errorf("worker pool init error: %w", err)
	}
	return &ContentService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "content"),
		cache:       cache,
		pool:        pool,
		gen:         map[string]uint64{},
	}, nil
}

// Close releases the worker pool.
func (s *ContentService) Close() {
	s.pool.Release()
}

func checkCollection(name string) error {
	if !content.Known(name) {
		return fmt.Errorf("%w: %q", common.ErrorUnknownCollection, name)
	}
	return nil
}

func cacheKey(collection, field, value string, order models.Order) string {
	return strings.Join([]string{collection, field, value, order.Field, string(order.Direction)}, "|")
}

// List returns the documents of a collection. A zero order means the
// collection's default order.
func (s *ContentService) List(ctx context.Context, collection string, order models.Order) ([]models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if order.Field == "" {
		order = content.DefaultOrder(collection)
	}
	return s.cached(collection, cacheKey(collection, "", "", order), func() ([]models.Document, error) {
		return s.repomanager.Documents(s.db).List(ctx, collection, order)
	})
}

// FindBy returns the documents whose field equals value.
func (s *ContentService) FindBy(ctx context.Context, collection, field, value string, order models.Order) ([]models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.cached(collection, cacheKey(collection, field, value, order), func() ([]models.Document, error) {
		return s.repomanager.Documents(s.db).FindBy(ctx, collection, field, value, order)
	})
}

func (s *ContentService) cached(collection, key string, load func() ([]models.Document, error)) ([]models.Document, error) {
	if docs, ok := s.cache.Get(key); ok {
		return slices.Clone(docs), nil
	}

	s.mu.Lock()
	gen := s.gen[collection]
	s.mu.Unlock()

	docs, err := load()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen[collection] == gen {
		s.cache.Add(key, docs)
	}
	s.mu.Unlock()

	return slices.Clone(docs), nil
}

func (s *ContentService) invalidate(collections ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range collections {
		s.gen[c]++
		prefix := c + "|"
		for _, k := range s.cache.Keys() {
			if strings.HasPrefix(k, prefix) {
				s.cache.Remove(k)
			}
		}
	}
}

// Get returns one document. Single reads are not cached.
func (s *ContentService) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).Get(ctx, collection, id)
}

// Create stores a new document and returns its id. Derived fields are filled
// in (see content.Derive). A comment must point at an existing blog post.
func (s *ContentService) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	fields = content.Derive(collection, fields, true)

	var id string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Documents(tx)

		if collection == content.Comments {
			if err := s.checkBlogExists(ctx, repo, fields); err != nil {
				return err
			}
		}

		var err error
		id, err = repo.Create(ctx, collection, fields)
		return err
	})
	if err != nil {
		s.logger.Warn(ctx, "create failed", "collection", collection, "error", err)
		return "", err
	}

	s.invalidate(collection)
	s.logger.Info(ctx, "document created", "collection", collection, "id", id)
	return id, nil
}

func (s *ContentService) checkBlogExists(ctx context.Context, repo documents.Repository, fields map[string]any) error {
	blogID, _ := fields["blogId"].(string)
	if blogID == "" {
		return fmt.Errorf("%w: comment without blogId", common.ErrorInvalidReference)
	}
	if _, err := repo.Get(ctx, content.Blogs, blogID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: blog post %s", common.ErrorInvalidReference, blogID)
		}
		return err
	}
	return nil
}

// Update merges fields into an existing document; it never creates one.
// A blog post's readTime follows any new content.
func (s *ContentService) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	fields = content.Derive(collection, fields, false)
	if err := s.repomanager.Documents(s.db).Update(ctx, collection, id, fields); err != nil {
		s.logger.Warn(ctx, "update failed", "collection", collection, "id", id, "error", err)
		return err
	}
	s.invalidate(collection)
	s.logger.Info(ctx, "document updated", "collection", collection, "id", id)
	return nil
}

// Delete removes a document. Deleting a blog post removes its comments in
// the same transaction.
func (s *ContentService) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	touched := []string{collection}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Documents(tx)
		if err := repo.Delete(ctx, collection, id); err != nil {
			return err
		}
		if collection == content.Blogs {
			n, err := repo.DeleteBy(ctx, content.Comments, "blogId", id)
			if err != nil {
				return err
			}
			if n > 0 {
				touched = append(touched, content.Comments)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "delete failed", "collection", collection, "id", id, "error", err)
		return err
	}

	s.invalidate(touched...)
	s.logger.Info(ctx, "document deleted", "collection", collection, "id", id)
	return nil
}

// LoadMany lists several collections concurrently on the worker pool.
// Each collection gets its own result; one failure does not affect the others.
func (s *ContentService) LoadMany(ctx context.Context, collections ...string) map[string]LoadResult {
	out := make(map[string]LoadResult, len(collections))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	set := func(name string, r LoadResult) {
		mu.Lock()
		out[name] = r
		mu.Unlock()
	}

	for _, name := range collections {
		name := name
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			docs, err := s.List(ctx, name, models.Order{})
			if err != nil {
				s.logger.Error(ctx, "load failed", "collection", name, "error", err)
			}
			set(name, LoadResult{Docs: docs, Err: err})
		})
		if err != nil {
			wg.Done()
			set(name, LoadResult{Err: fmt.Errorf("schedule load: %w", err)})
		}
	}

	wg.Wait()
	return out
}
