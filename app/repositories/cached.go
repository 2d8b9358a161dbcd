package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/pkg/logger"
)

const toolsAllKey = "tools:all"

// Cacher is the subset of pkg/cache the catalogue cache needs.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any) error
	Del(ctx context.Context, keys ...string) error
}

// CachedTools serves the catalogue listing from a cache and drops it on
// every write. Cached documents are their JSON form, so ids come back as
// hex strings.
type CachedTools struct {
	ToolStore
	cache Cacher
}

// WithToolCache wraps tools with a read-through cache for All.
func WithToolCache(tools ToolStore, c Cacher) *CachedTools {
	return &CachedTools{ToolStore: tools, cache: c}
}

func (s *CachedTools) All(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if s.cache.Get(ctx, toolsAllKey, &docs) {
		return docs, nil
	}

	docs, err := s.ToolStore.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, toolsAllKey, docs); err != nil {
		logger.WithCtx(ctx).Warn("tool cache write failed", "error", err)
	}
	return docs, nil
}

func (s *CachedTools) Insert(ctx context.Context, doc models.Document) (models.InsertResult, error) {
	res, err := s.ToolStore.Insert(ctx, doc)
	s.invalidate(ctx)
	return res, err
}

func (s *CachedTools) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := s.ToolStore.DeleteByID(ctx, id)
	s.invalidate(ctx)
	return res, err
}

func (s *CachedTools) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, toolsAllKey); err != nil {
		logger.WithCtx(ctx).Warn("tool cache invalidation failed", "error", err)
	}
}
