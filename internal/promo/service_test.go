package promo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/lock"
	"github.com/noah-isme/quote-api/internal/obs"
)

type stubStore struct {
	promotions []Promotion
	listCalls  int
	listErr    error
	created    *Promotion
	deleted    *uuid.UUID
}

func (s *stubStore) ListPromotions(ctx context.Context) ([]Promotion, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.promotions, nil
}

func (s *stubStore) ListPromotionsPage(ctx context.Context, limit, offset int) ([]Promotion, error) {
	return s.promotions, nil
}

func (s *stubStore) CountPromotions(ctx context.Context) (int64, error) {
	return int64(len(s.promotions)), nil
}

func (s *stubStore) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	for _, p := range s.promotions {
		if p.ID == id {
			return p, nil
		}
	}
	return Promotion{}, ErrNotFound
}

func (s *stubStore) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	s.created = &p
	s.promotions = append(s.promotions, p)
	return p, nil
}

func (s *stubStore) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	for i, existing := range s.promotions {
		if existing.ID == p.ID {
			s.promotions[i] = p
			return p, nil
		}
	}
	return Promotion{}, ErrNotFound
}

func (s *stubStore) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	s.deleted = &id
	return nil
}

func newTestService(t *testing.T, store Store) (*Service, *miniredis.Miniredis) {
	t.Helper()
	obs.MustRegisterDomainMetrics("test", nil)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{
		Store:  store,
		Cache:  NewCache(client, time.Minute),
		Logger: zerolog.Nop(),
	}, mr
}

func TestListEligibleServesSecondReadFromCache(t *testing.T) {
	store := &stubStore{promotions: []Promotion{activePromotion(ScopeAll)}}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.ListEligible(ctx, Target{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.ListEligible(ctx, Target{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one promotion per read, got %d and %d", len(first), len(second))
	}
	if store.listCalls != 1 {
		t.Fatalf("second read should hit the cache, store queried %d times", store.listCalls)
	}
}

func TestListEligibleStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	svc, _ := newTestService(t, &stubStore{listErr: boom})
	if _, err := svc.ListEligible(context.Background(), Target{}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestCreateInvalidatesCache(t *testing.T) {
	store := &stubStore{promotions: []Promotion{activePromotion(ScopeAll)}}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.ListEligible(ctx, Target{}); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if !mr.Exists(cacheKeyAll) {
		t.Fatal("expected cached promotion list")
	}
	if _, err := svc.Create(ctx, activePromotion(ScopeAll)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if mr.Exists(cacheKeyAll) {
		t.Fatal("create must invalidate the cached list")
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	p := activePromotion(ScopeAll)
	store := &stubStore{promotions: []Promotion{p}}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.ListEligible(ctx, Target{}); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(cacheKeyAll) {
		t.Fatal("delete must invalidate the cached list")
	}
	if store.deleted == nil || *store.deleted != p.ID {
		t.Fatal("delete must reach the store")
	}
}

func TestListEligibleWithRebuildLock(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", nil)
	store := &stubStore{promotions: []Promotion{activePromotion(ScopeAll)}}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := &Service{
		Store:  store,
		Cache:  NewCache(client, time.Minute),
		Lock:   &lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond},
		Logger: zerolog.Nop(),
	}

	got, err := svc.ListEligible(context.Background(), Target{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one promotion, got %d", len(got))
	}
	if store.listCalls != 1 {
		t.Fatalf("expected a single store read, got %d", store.listCalls)
	}
	if !mr.Exists(cacheKeyAll) {
		t.Fatal("rebuild must populate the cache")
	}
}

func TestListEligibleWithoutCacheClient(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", nil)
	store := &stubStore{promotions: []Promotion{activePromotion(ScopeAll)}}
	svc := &Service{Store: store, Logger: zerolog.Nop()}

	got, err := svc.ListEligible(context.Background(), Target{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one promotion, got %d", len(got))
	}
}
