// Package rediscache decorates a report store with a Redis read-through
// cache. Reports are immutable, so cached entries never need invalidation;
// the TTL only bounds memory.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"quoteguard/internal/report"
	"quoteguard/internal/validation/models"
)

// Cache wraps an inner store. Cache failures degrade to the inner store;
// they are logged, never surfaced.
type Cache struct {
	inner  report.Store
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Cache.
type Option func(*Cache)

// WithLogger sets a logger for cache degradation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New wraps inner with a Redis cache.
func New(inner report.Store, client *goredis.Client, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{inner: inner, client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(id uuid.UUID) string {
	return "quoteguard:report:" + id.String()
}

func (c *Cache) Save(ctx context.Context, r *models.SubmissionReport) error {
	if err := c.inner.Save(ctx, r); err != nil {
		return err
	}
	c.put(ctx, r)
	return nil
}

func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*models.SubmissionReport, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err == nil {
		var r models.SubmissionReport
		if jsonErr := json.Unmarshal(raw, &r); jsonErr == nil {
			return &r, nil
		}
		// Corrupt cache entry: fall through to the store.
	} else if !errors.Is(err, goredis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "report cache read failed", "report_id", id, "error", err)
	}

	r, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, r)
	return r, nil
}

func (c *Cache) put(ctx context.Context, r *models.SubmissionReport) {
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(r.ID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "report cache write failed", "report_id", r.ID, "error", err)
	}
}
