package migrations

import (
	"context"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

// StatementRow is the bun model for the statements table.
type StatementRow struct {
	bun.BaseModel `bun:"table:statements"`

	ID        int    `bun:"id,pk"`
	Text      string `bun:"text,notnull"`
	Dimension string `bun:"dimension,notnull"`
	Polarity  int    `bun:"polarity,notnull"`
}

// SeedStatements upserts a catalog into the statements table.
func SeedStatements(ctx context.Context, db bun.IDB, cat domain.Catalog) error {
	if len(cat.Statements) == 0 {
		return nil
	}
	rows := make([]StatementRow, 0, len(cat.Statements))
	for _, s := range cat.Statements {
		rows = append(rows, StatementRow{ID: s.ID, Text: s.Text, Dimension: s.Dimension.Code(), Polarity: s.Polarity})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("text = EXCLUDED.text").
		Set("dimension = EXCLUDED.dimension").
		Set("polarity = EXCLUDED.polarity").
		Exec(ctx)
	return err
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return SeedStatements(ctx, db, catalog.Default())
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDelete().Model((*StatementRow)(nil)).Where("TRUE").Exec(ctx)
			return err
		},
	)
}
