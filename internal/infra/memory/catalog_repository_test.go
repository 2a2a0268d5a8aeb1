package memory

import (
	"context"
	"testing"
	"time"

	"mbti-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestCatalogRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetCatalog(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetCatalog(context.Background())

	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderEmptyCatalog(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(domain.Catalog{}), time.Minute)
	if _, err := repo.GetCatalog(context.Background()); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

func TestDefaultLoaderServesEmbeddedCatalog(t *testing.T) {
	cat, err := NewDefaultCatalogLoader().LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Statements) != 93 {
		t.Fatalf("expected 93 statements, got %d", len(cat.Statements))
	}
}

type countingLoader struct {
	CatalogLoader
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
			{ID: 1, Text: "You enjoy parties", Dimension: domain.Energy, Polarity: 1},
			{ID: 2, Text: "You trust facts", Dimension: domain.Information, Polarity: 1},
		},
	}
}
