package boundcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultUnionTimeout bounds a single authoritative-union fetch.
const DefaultUnionTimeout = 15 * time.Second

// UnionProvider fetches the authoritative merged geometry for a
// multi-unit region target. Implemented by an upstream collaborator;
// any error it returns is recoverable for the validation call.
type UnionProvider interface {
	FetchUnion(ctx context.Context, identifierCode string) (*RegionUnion, error)
}

// UnionProviderFunc adapts a function to the UnionProvider interface.
type UnionProviderFunc func(ctx context.Context, identifierCode string) (*RegionUnion, error)

func (f UnionProviderFunc) FetchUnion(ctx context.Context, identifierCode string) (*RegionUnion, error) {
	return f(ctx, identifierCode)
}

// UnionCache memoizes unions by identifier code for the process
// lifetime. Entries are write-once; concurrent callers for the same
// missing key coalesce onto a single in-flight fetch.
type UnionCache struct {
	provider UnionProvider
	flight   singleflight.Group

	mu     sync.RWMutex
	unions map[string]*RegionUnion
}

func NewUnionCache(provider UnionProvider) *UnionCache {
	return &UnionCache{
		provider: provider,
		unions:   make(map[string]*RegionUnion),
	}
}

func (c *UnionCache) Get(ctx context.Context, identifierCode string) (*RegionUnion, error) {
	if len(identifierCode) == 0 {
		return nil, fmt.Errorf("boundcheck/union: got empty identifier code")
	}
	c.mu.RLock()
	union, ok := c.unions[identifierCode]
	c.mu.RUnlock()
	if ok {
		return union, nil
	}
	if c.provider == nil {
		return nil, ErrNoUnionProvider
	}
	v, err, _ := c.flight.Do(identifierCode, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.unions[identifierCode]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		fetched, err := c.provider.FetchUnion(ctx, identifierCode)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, ErrUnionNotFound
		}
		c.mu.Lock()
		if prev, ok := c.unions[identifierCode]; ok {
			fetched = prev
		} else {
			c.unions[identifierCode] = fetched
		}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RegionUnion), nil
}

func (c *UnionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.unions)
}

func (c *UnionCache) Clear() {
	c.mu.Lock()
	c.unions = make(map[string]*RegionUnion)
	c.mu.Unlock()
}

// HTTPUnionProvider fetches unions from an HTTP endpoint serving
// documents of the form:
//
//	{"members": [...], "provenance": "...", "geometry": {<GeoJSON>}}
type HTTPUnionProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPUnionProvider(baseURL string, timeout time.Duration) *HTTPUnionProvider {
	if timeout <= 0 {
		timeout = DefaultUnionTimeout
	}
	return &HTTPUnionProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type unionDocument struct {
	Members    []string     `json:"members"`
	Provenance string       `json:"provenance"`
	Geometry   *rawGeometry `json:"geometry"`
}

func (p *HTTPUnionProvider) FetchUnion(ctx context.Context, identifierCode string) (*RegionUnion, error) {
	endpoint := p.baseURL + "/" + url.PathEscape(identifierCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnionFetch, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnionFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnionNotFound, identifierCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnionFetch, resp.StatusCode)
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnionFetch, err)
	}
	var doc unionDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnionFetch, err)
	}
	geom, err := decodeGeometry(doc.Geometry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnionFetch, err)
	}
	if geom.IsEmpty() {
		return nil, fmt.Errorf("%w: document for %s has no geometry", ErrUnionFetch, identifierCode)
	}
	return &RegionUnion{
		MemberRegions: doc.Members,
		Geometry:      geom,
		Provenance:    doc.Provenance,
	}, nil
}
