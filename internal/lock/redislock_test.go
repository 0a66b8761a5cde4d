package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestWithLockSerialisesCallers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := Locker{R: client, RetryBackoff: 5 * time.Millisecond}

	var mu sync.Mutex
	var inside, maxInside int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), "rebuild", time.Second, func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("with lock: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder at a time, saw %d", maxInside)
	}
}

func TestWithLockContextCancelled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mr.Set("held", "someone-else")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	locker := Locker{R: client, RetryBackoff: 5 * time.Millisecond}
	err := locker.WithLock(ctx, "held", time.Second, func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error when lock is already held")
	}
}
