package promo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/lock"
	"github.com/noah-isme/quote-api/internal/obs"
)

const rebuildLockKey = "promos:rebuild"

// Service orchestrates promotion reads, caching, and admin mutations.
type Service struct {
	Store  Store
	Cache  *Cache
	Lock   *lock.Locker
	Logger zerolog.Logger
	Now    func() time.Time
}

// ListEligible returns the promotions matching the target, ordered by
// priority. The full promotion set is served from cache when warm; cache
// failures degrade to a database read.
func (s *Service) ListEligible(ctx context.Context, target Target) ([]Promotion, error) {
	if s == nil || s.Store == nil {
		return nil, ErrStoreUnavailable
	}
	var all []Promotion
	hit, err := s.Cache.GetAll(ctx, &all)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("promotion cache read failed")
		hit = false
	}
	if hit {
		obs.PromoLookupTotal.WithLabelValues("cache").Inc()
	} else {
		all, err = s.rebuild(ctx)
		if err != nil {
			return nil, err
		}
		obs.PromoLookupTotal.WithLabelValues("db").Inc()
	}
	return Match(all, target, s.now()), nil
}

// rebuild loads the full promotion set and repopulates the cache. With a
// locker configured, concurrent misses across replicas collapse into one
// database read; late acquirers reuse the fresh cache entry.
func (s *Service) rebuild(ctx context.Context) ([]Promotion, error) {
	if s.Lock == nil {
		return s.loadAndCache(ctx)
	}
	var all []Promotion
	var loadErr error
	lockErr := s.Lock.WithLock(ctx, rebuildLockKey, 5*time.Second, func(ctx context.Context) error {
		if hit, err := s.Cache.GetAll(ctx, &all); err == nil && hit {
			return nil
		}
		all, loadErr = s.loadAndCache(ctx)
		return nil
	})
	if lockErr != nil {
		// Lock contention or a Redis outage must not block quote traffic.
		s.Logger.Warn().Err(lockErr).Msg("promotion rebuild lock unavailable")
		return s.loadAndCache(ctx)
	}
	return all, loadErr
}

func (s *Service) loadAndCache(ctx context.Context) ([]Promotion, error) {
	all, err := s.Store.ListPromotions(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetAll(ctx, all); err != nil {
		s.Logger.Warn().Err(err).Msg("promotion cache write failed")
	}
	return all, nil
}

// ListPage returns one admin page of promotions plus the total count.
func (s *Service) ListPage(ctx context.Context, page, perPage int) ([]Promotion, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, ErrStoreUnavailable
	}
	if page < 1 {
		page = 1
	}
	promotions, err := s.Store.ListPromotionsPage(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountPromotions(ctx)
	if err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// Get fetches one promotion by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Promotion, error) {
	if s == nil || s.Store == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	return s.Store.GetPromotion(ctx, id)
}

// Create persists a new promotion and drops the cached list.
func (s *Service) Create(ctx context.Context, p Promotion) (Promotion, error) {
	if s == nil || s.Store == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	created, err := s.Store.CreatePromotion(ctx, p)
	if err != nil {
		return Promotion{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update replaces the mutable fields of an existing promotion and drops the
// cached list.
func (s *Service) Update(ctx context.Context, p Promotion) (Promotion, error) {
	if s == nil || s.Store == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	updated, err := s.Store.UpdatePromotion(ctx, p)
	if err != nil {
		return Promotion{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a promotion and drops the cached list.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.Store == nil {
		return ErrStoreUnavailable
	}
	if err := s.Store.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.Logger.Warn().Err(err).Msg("promotion cache invalidation failed")
	}
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
