package cached

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"person-web-service/internal/adapter/cache"
	domain "person-web-service/internal/domain/person"
	"person-web-service/internal/usecase/person"
)

// listingFlight is the singleflight key shared by concurrent listing misses.
const listingFlight = "people:all"

// CachedPersonRepository implements person.Repository with caching support.
// It wraps a persistent repository (DB) and caches the full listing.
type CachedPersonRepository struct {
	dbRepo person.Repository
	cache  cache.PeopleCache
	log    *zap.Logger
	group  singleflight.Group
	// generation is bumped by every successful Create. A listing read under an
	// older generation is never left in the cache.
	generation atomic.Uint64
}

// NewCachedPersonRepository creates a new instance of CachedPersonRepository.
func NewCachedPersonRepository(dbRepo person.Repository, cache cache.PeopleCache, log *zap.Logger) *CachedPersonRepository {
	return &CachedPersonRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create stores the person in DB and invalidates the cached listing.
func (r *CachedPersonRepository) Create(ctx context.Context, p *domain.Person) (int64, error) {
	id, err := r.dbRepo.Create(ctx, p)
	if err != nil {
		return 0, err
	}

	r.generation.Add(1)
	r.group.Forget(listingFlight)

	if r.cache != nil {
		if err := r.cache.Invalidate(ctx); err != nil {
			r.log.Warn("failed to invalidate listing cache after create", zap.Int64("id", id), zap.Error(err))
		}
	}

	return id, nil
}

// List retrieves the listing using the Cache-Aside pattern.
func (r *CachedPersonRepository) List(ctx context.Context) ([]domain.Person, error) {
	if r.cache != nil {
		people, err := r.cache.GetAll(ctx)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Error(err))
		} else if people != nil {
			return people, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do(listingFlight, func() (any, error) {
		gen := r.generation.Load()
		people, err := r.dbRepo.List(ctx)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			r.storeListing(ctx, gen, people)
		}

		return people, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]domain.Person), nil
}

// storeListing caches people read under generation gen. A Create that lands
// between the check and the write is caught by the second check.
func (r *CachedPersonRepository) storeListing(ctx context.Context, gen uint64, people []domain.Person) {
	if r.generation.Load() != gen {
		r.log.Debug("listing changed during read, not caching")
		return
	}

	if err := r.cache.SetAll(ctx, people); err != nil {
		r.log.Warn("failed to cache listing", zap.Error(err))
		return
	}

	if r.generation.Load() != gen {
		if err := r.cache.Invalidate(ctx); err != nil {
			r.log.Warn("failed to drop stale listing", zap.Error(err))
		}
	}
}
