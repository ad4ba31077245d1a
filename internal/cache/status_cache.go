// Package cache holds redis-backed read caches. The status table is tiny
// and read on every ticket create and reply, so the default-status lookup
// is cached with a short TTL and invalidated on every status write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

const (
	defaultStatusKey = "helpdesk:status:default"
	statusKeyPrefix  = "helpdesk:status:id:"
	statusTTL        = 5 * time.Minute
)

// StatusCache decorates a StatusRepository with redis caching. Cache
// failures degrade to the underlying repository, never to an error.
type StatusCache struct {
	inner  repository.StatusRepository
	client *redis.Client
	logger *zap.Logger
}

// NewStatusCache wraps the repository.
func NewStatusCache(inner repository.StatusRepository, client *redis.Client, logger *zap.Logger) *StatusCache {
	return &StatusCache{inner: inner, client: client, logger: logger}
}

var _ repository.StatusRepository = (*StatusCache)(nil)

func statusKey(id int64) string {
	return fmt.Sprintf("%s%d", statusKeyPrefix, id)
}

// GetDefault returns the cached default status, falling back to the
// repository on a miss.
func (c *StatusCache) GetDefault(ctx context.Context) (*domain.Status, error) {
	if status := c.lookup(ctx, defaultStatusKey); status != nil {
		return status, nil
	}
	status, err := c.inner.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, defaultStatusKey, status)
	return status, nil
}

// GetByID returns the cached status, falling back to the repository.
func (c *StatusCache) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	if status := c.lookup(ctx, statusKey(id)); status != nil {
		return status, nil
	}
	status, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, statusKey(id), status)
	return status, nil
}

func (c *StatusCache) Create(ctx context.Context, status *domain.Status) error {
	if err := c.inner.Create(ctx, status); err != nil {
		return err
	}
	c.invalidate(ctx, status.ID)
	return nil
}

func (c *StatusCache) Update(ctx context.Context, status *domain.Status) error {
	if err := c.inner.Update(ctx, status); err != nil {
		return err
	}
	c.invalidate(ctx, status.ID)
	return nil
}

func (c *StatusCache) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// ClearDefault demotes the current default row. The demoted row's per-id
// entry is dropped together with the default key, otherwise reads through
// GetByID keep seeing the old flag until the TTL expires.
func (c *StatusCache) ClearDefault(ctx context.Context) error {
	keys := []string{defaultStatusKey}
	if c.client != nil {
		if current, err := c.inner.GetDefault(ctx); err == nil {
			keys = append(keys, statusKey(current.ID))
		}
	}
	if err := c.inner.ClearDefault(ctx); err != nil {
		return err
	}
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("status cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (c *StatusCache) List(ctx context.Context) ([]domain.Status, error) {
	return c.inner.List(ctx)
}

func (c *StatusCache) lookup(ctx context.Context, key string) *domain.Status {
	if c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("status cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var status domain.Status
	if err := json.Unmarshal(raw, &status); err != nil {
		c.logger.Warn("status cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &status
}

func (c *StatusCache) store(ctx context.Context, key string, status *domain.Status) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, statusTTL).Err(); err != nil {
		c.logger.Warn("status cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *StatusCache) invalidate(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, defaultStatusKey, statusKey(id)).Err(); err != nil {
		c.logger.Warn("status cache invalidation failed", zap.Error(err))
	}
}
