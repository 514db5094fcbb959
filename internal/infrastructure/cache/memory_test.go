package cache

import (
	"context"
	"testing"
	"time"

	"github.com/voicecart/backend/internal/domain"
)

func newTestMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value []byte
		ttl   time.Duration
	}{
		{
			name:  "store and retrieve json",
			key:   "transcript:mangga lima puluh ribu",
			value: []byte(`{"itemName":"Mangga","price":50000}`),
			ttl:   1 * time.Minute,
		},
		{
			name:  "store and retrieve empty value",
			key:   "empty",
			value: []byte{},
			ttl:   1 * time.Minute,
		},
		{
			name:  "store with short TTL",
			key:   "expires-soon",
			value: []byte("x"),
			ttl:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				if _, err := cache.Get(ctx, tt.key); err != domain.ErrCacheMiss {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_StoredBytesAreIsolated(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	value := []byte("abc")
	if err := cache.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'z'

	got, _ := cache.Get(ctx, "k")
	got[1] = 'z'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get() = %q, want %q", again, "abc")
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := newTestMemoryCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	key := "exists-test"

	exists, err := cache.Exists(ctx, key)
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v; want false, nil for non-existent key", exists, err)
	}

	if err := cache.Set(ctx, key, []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	exists, err = cache.Exists(ctx, key)
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v; want true, nil after setting value", exists, err)
	}

	shortKey := "short-ttl"
	if err := cache.Set(ctx, shortKey, []byte("value"), 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	exists, err = cache.Exists(ctx, shortKey)
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v; want false, nil after expiration", exists, err)
	}
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "stale", []byte("1"), time.Millisecond)
	_ = cache.Set(ctx, "fresh", []byte("2"), time.Minute)
	time.Sleep(10 * time.Millisecond)

	cache.removeExpired()

	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1 after sweeping expired entries", size)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if err := cache.Set(ctx, key, []byte{byte(i)}, 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if size := cache.Size(); size != 5 {
		t.Fatalf("Size() = %d, want 5", size)
	}

	_ = cache.Delete(ctx, "a")
	if size := cache.Size(); size != 4 {
		t.Errorf("Size() = %d, want 4 after delete", size)
	}

	cache.Clear()
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(time.Millisecond)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := newTestMemoryCache(t)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, []byte{byte(id)}, 1*time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
