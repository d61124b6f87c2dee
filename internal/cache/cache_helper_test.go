package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	type entry struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "k1", entry{Name: "x", Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got entry
	if err := helper.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "x" || got.Count != 2 {
		t.Errorf("Get = %+v", got)
	}

	if err := helper.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := helper.Get(ctx, "k1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("after delete want ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_TTLExpiry(t *testing.T) {
	helper, mr := newTestCache(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "grants", []string{"a"}, GrantCacheConfig.TTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(GrantCacheConfig.TTL + time.Second)

	var got []string
	if err := helper.Get(ctx, "grants", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("entry must expire within the staleness bound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client: %v", err)
	}
	var got string
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get with nil client: want ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete with nil client: %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"campus:1:a", "campus:1:b", "campus:2:a"} {
		if err := helper.Set(ctx, k, "v", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "campus:1:*"); err != nil {
		t.Fatalf("InvalidatePattern: %v", err)
	}

	var got string
	if err := helper.Get(ctx, "campus:1:a", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("campus:1:a should be gone, got %v", err)
	}
	if err := helper.Get(ctx, "campus:2:a", &got); err != nil {
		t.Errorf("campus:2:a should survive, got %v", err)
	}
}
