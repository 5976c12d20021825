package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T, ttl, maxWait time.Duration) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisLock(rdb, ttl, maxWait), mr
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	l, mr := newTestLock(t, time.Second, time.Second)

	release, err := l.Acquire(context.Background(), "5511999999999")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if !mr.Exists("lock:5511999999999") {
		t.Fatalf("expected lock key to exist while held")
	}

	release()
	if mr.Exists("lock:5511999999999") {
		t.Fatalf("expected lock key to be gone after release")
	}
}

func TestRedisLock_SerializesSameKey(t *testing.T) {
	l, _ := newTestLock(t, time.Second, 2*time.Second)

	release, err := l.Acquire(context.Background(), "phone")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	var wg sync.WaitGroup
	acquired := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		r2, err := l.Acquire(context.Background(), "phone")
		if err != nil {
			t.Errorf("second Acquire() error: %v", err)
			return
		}
		close(acquired)
		r2()
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquire succeeded while lock was held")
	case <-time.After(100 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatalf("second acquire did not proceed after release")
	}
	wg.Wait()
}

func TestRedisLock_DifferentKeysDoNotBlock(t *testing.T) {
	l, _ := newTestLock(t, time.Second, time.Second)

	r1, err := l.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatalf("Acquire(a) error: %v", err)
	}
	defer r1()

	r2, err := l.Acquire(context.Background(), "b")
	if err != nil {
		t.Fatalf("Acquire(b) error: %v", err)
	}
	r2()
}

func TestRedisLock_WaitBudgetExceeded(t *testing.T) {
	l, _ := newTestLock(t, 10*time.Second, 100*time.Millisecond)

	release, err := l.Acquire(context.Background(), "busy")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	defer release()

	if _, err := l.Acquire(context.Background(), "busy"); err == nil {
		t.Fatalf("expected error when wait budget is exceeded")
	}
}

func TestRedisLock_StaleReleaseDoesNotFreeNewHolder(t *testing.T) {
	l, mr := newTestLock(t, 50*time.Millisecond, time.Second)

	release1, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	// Let the first holder's TTL lapse, then take the lock again.
	mr.FastForward(100 * time.Millisecond)

	release2, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("re-Acquire() after expiry error: %v", err)
	}

	release1()
	if !mr.Exists("lock:k") {
		t.Fatalf("stale release removed the new holder's lock")
	}
	release2()
}
