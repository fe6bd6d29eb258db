package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "person-web-service/internal/domain/person"
)

// listingKey holds the JSON-encoded listing of every person.
const listingKey = "people:all"

// PeopleCache defines the interface for caching the person listing.
type PeopleCache interface {
	// GetAll retrieves the cached listing.
	// Returns nil, nil on a cache miss.
	GetAll(ctx context.Context) ([]domain.Person, error)

	// SetAll stores the listing with the configured TTL.
	SetAll(ctx context.Context, people []domain.Person) error

	// Invalidate drops the cached listing.
	Invalidate(ctx context.Context) error
}

// RedisPeopleCache implements PeopleCache using Redis as the backing store.
type RedisPeopleCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisPeopleCache creates a new Redis-backed listing cache.
func NewRedisPeopleCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisPeopleCache {
	return &RedisPeopleCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// GetAll retrieves the listing from Redis.
func (c *RedisPeopleCache) GetAll(ctx context.Context) ([]domain.Person, error) {
	data, err := c.client.Get(ctx, listingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.String("key", listingKey))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("key", listingKey), zap.Error(err))
		return nil, err
	}

	people := []domain.Person{}
	if err := json.Unmarshal(data, &people); err != nil {
		c.log.Error("failed to unmarshal cached listing", zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("key", listingKey), zap.Int("count", len(people)))
	return people, nil
}

// SetAll stores the listing in Redis with TTL.
func (c *RedisPeopleCache) SetAll(ctx context.Context, people []domain.Person) error {
	if people == nil {
		return fmt.Errorf("cannot cache nil listing")
	}

	data, err := json.Marshal(people)
	if err != nil {
		c.log.Error("failed to marshal listing for cache", zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, listingKey, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("key", listingKey), zap.Error(err))
		return err
	}

	c.log.Debug("cached listing", zap.Int("count", len(people)), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes the listing from Redis.
func (c *RedisPeopleCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("key", listingKey), zap.Error(err))
		return err
	}

	c.log.Debug("invalidated listing cache")
	return nil
}
