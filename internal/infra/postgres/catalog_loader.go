package postgres

import (
	"context"
	"fmt"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the statements table from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
	name string
}

func NewCatalogLoader(pool *pgxpool.Pool, name string) *CatalogLoader {
	return &CatalogLoader{pool: pool, name: name}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, text, dimension, polarity FROM statements ORDER BY id`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	cat := domain.Catalog{Name: l.name}
	for rows.Next() {
		var (
			s    domain.Statement
			code string
			pol  int16
		)
		if err := rows.Scan(&s.ID, &s.Text, &code, &pol); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan statement: %w", err)
		}
		if s.Dimension, err = domain.ParseDimension(code); err != nil {
			return domain.Catalog{}, fmt.Errorf("statement %d: %w", s.ID, err)
		}
		s.Polarity = int(pol)
		cat.Statements = append(cat.Statements, s)
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	if len(cat.Statements) == 0 {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if err := catalog.Validate(cat); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}
