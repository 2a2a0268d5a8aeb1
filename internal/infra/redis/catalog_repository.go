package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"mbti-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the statement catalog from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogRepository caches statements in a Redis hash and falls back to a loader on cache miss.
// Statements are stored as: HSET catalog:{name}:statements {id} {json}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	name   string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, name string, ttl time.Duration) *CatalogRepository {
	if name == "" {
		name = "default"
	}
	return &CatalogRepository{
		client: client,
		loader: loader,
		name:   name,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	key := r.statementsKey()

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		if cat, ok := buildCatalogFromCache(r.name, fields); ok {
			return cat, nil
		}
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			if cat, ok := buildCatalogFromCache(r.name, fields); ok {
				return cat, nil
			}
		}

		cat, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		pipe.Del(ctx, key)
		for _, s := range cat.Statements {
			raw, err := json.Marshal(s)
			if err != nil {
				return domain.Catalog{}, err
			}
			pipe.HSet(ctx, key, strconv.Itoa(s.ID), raw)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) statementsKey() string {
	return "catalog:" + r.name + ":statements"
}

// buildCatalogFromCache decodes cached statements; any corrupt entry forces a reload.
func buildCatalogFromCache(name string, fields map[string]string) (domain.Catalog, bool) {
	statements := make([]domain.Statement, 0, len(fields))
	for _, raw := range fields {
		var s domain.Statement
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return domain.Catalog{}, false
		}
		statements = append(statements, s)
	}
	sort.Slice(statements, func(i, j int) bool { return statements[i].ID < statements[j].ID })
	return domain.Catalog{Name: name, Statements: statements}, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
