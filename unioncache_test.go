package boundcheck

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type slowUnionProvider struct {
	calls int32
	delay time.Duration
}

func (p *slowUnionProvider) FetchUnion(_ context.Context, _ string) (*RegionUnion, error) {
	atomic.AddInt32(&p.calls, 1)
	time.Sleep(p.delay)
	return fayetteUnion(), nil
}

func TestUnionCacheCoalescesConcurrentFetches(t *testing.T) {
	provider := &slowUnionProvider{delay: 50 * time.Millisecond}
	cache := NewUnionCache(provider)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*RegionUnion, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			union, err := cache.Get(ctx, "lex-4county")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = union
		}(i)
	}
	wg.Wait()

	if have := atomic.LoadInt32(&provider.calls); have != 1 {
		t.Fatalf("have %d provider calls, want 1", have)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatal("all callers must observe the same cached union")
		}
	}
}

func TestUnionCacheWriteOnce(t *testing.T) {
	provider := &slowUnionProvider{}
	cache := NewUnionCache(provider)
	ctx := context.Background()

	first, err := cache.Get(ctx, "lex-4county")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Get(ctx, "lex-4county")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("second read must hit the cache")
	}
	if have := atomic.LoadInt32(&provider.calls); have != 1 {
		t.Fatalf("have %d provider calls, want 1", have)
	}
}

func TestUnionCacheClear(t *testing.T) {
	provider := &slowUnionProvider{}
	cache := NewUnionCache(provider)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "lex-4county"); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 1 {
		t.Fatalf("have %d cached unions, want 1", cache.Len())
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("have %d cached unions after clear, want 0", cache.Len())
	}
	if _, err := cache.Get(ctx, "lex-4county"); err != nil {
		t.Fatal(err)
	}
	if have := atomic.LoadInt32(&provider.calls); have != 2 {
		t.Fatalf("have %d provider calls, want 2", have)
	}
}

func TestUnionCacheNoProvider(t *testing.T) {
	cache := NewUnionCache(nil)
	if _, err := cache.Get(context.Background(), "lex-4county"); err != ErrNoUnionProvider {
		t.Fatalf("have %v, want ErrNoUnionProvider", err)
	}
}

func TestUnionCacheEmptyKey(t *testing.T) {
	cache := NewUnionCache(&slowUnionProvider{})
	if _, err := cache.Get(context.Background(), ""); err == nil {
		t.Fatal("empty identifier code must fail")
	}
}
