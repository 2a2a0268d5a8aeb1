package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the statement catalog from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

const catalogKey = "catalog"

// CatalogRepository caches the catalog with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    domain.Catalog
	expiresAt time.Time
	loaded    bool
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if cat, ok := r.fresh(r.clock()); ok {
		return cat, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if cat, ok := r.fresh(now); ok {
			return cat, nil
		}

		cat, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}

		r.mu.Lock()
		r.cached = cat
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.loaded = true
		r.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) fresh(now time.Time) (domain.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.loaded && r.expiresAt.After(now) {
		return r.cached, true
	}
	return domain.Catalog{}, false
}

// StaticCatalogLoader serves a fixed catalog (the embedded one by default).
type StaticCatalogLoader struct {
	catalog domain.Catalog
}

func NewStaticCatalogLoader(cat domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalog: cat}
}

// NewDefaultCatalogLoader serves the embedded reference catalog.
func NewDefaultCatalogLoader() *StaticCatalogLoader {
	return NewStaticCatalogLoader(catalog.Default())
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	if len(l.catalog.Statements) == 0 {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	return l.catalog, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
