package redis

import (
	"context"
	"testing"
	"time"

	"mbti-quiz-service/internal/domain"
	"mbti-quiz-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(client, loader, "sample", time.Minute)

	cat, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(cat.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(cat.Statements))
	}
	if !mr.Exists("catalog:sample:statements") {
		t.Fatalf("expected statements hash in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get cached catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Statements[0].ID != 1 || cached.Statements[1].Dimension != domain.Information {
		t.Fatalf("cached catalog mismatch: %+v", cached.Statements)
	}
}

func TestCatalogRepositoryReloadsCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	mr.HSet("catalog:sample:statements", "1", "not json")
	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(newClient(mr), loader, "sample", time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected reload from loader, got %d calls", loader.calls)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Name: "sample",
		Statements: []domain.Statement{
			{ID: 2, Text: "You trust facts", Dimension: domain.Information, Polarity: 1},
			{ID: 1, Text: "You enjoy parties", Dimension: domain.Energy, Polarity: 1},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
