// Package catalog owns the statement catalogs and the dimension-balanced sampler.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"mbti-quiz-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed statements.yaml
var statementsYAML []byte

// Default returns the embedded reference catalog (93 statements).
func Default() domain.Catalog {
	cat, err := Parse(statementsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return cat
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (domain.Catalog, error) {
	var doc struct {
		Name       string             `yaml:"name"`
		Statements []domain.Statement `yaml:"statements"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	cat := domain.Catalog{Name: doc.Name, Statements: doc.Statements}
	if err := Validate(cat); err != nil {
		return domain.Catalog{}, err
	}
	sortByID(cat.Statements)
	return cat, nil
}

// Validate checks every statement's fields and that IDs are unique.
func Validate(cat domain.Catalog) error {
	validate := validator.New()
	seen := make(map[int]struct{}, len(cat.Statements))
	for _, s := range cat.Statements {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("statement %d: %w", s.ID, err)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("statement %d: duplicate id", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// DefaultTiers mirrors the reference sizing: each tier asks every statement of its catalog.
func DefaultTiers() []domain.TierSpec {
	return []domain.TierSpec{
		{Tier: domain.TierBasic, CatalogSize: 20, TargetCount: 20},
		{Tier: domain.TierStandard, CatalogSize: 45, TargetCount: 45},
		{Tier: domain.TierProfessional, CatalogSize: 93, TargetCount: 93},
	}
}

// Tiers indexes tier specs by name.
type Tiers map[domain.Tier]domain.TierSpec

func NewTiers(specs []domain.TierSpec) Tiers {
	tiers := make(Tiers, len(specs))
	for _, spec := range specs {
		tiers[spec.Tier] = spec
	}
	return tiers
}

func (t Tiers) Lookup(tier domain.Tier) (domain.TierSpec, error) {
	spec, ok := t[tier]
	if !ok {
		return domain.TierSpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tier)
	}
	return spec, nil
}

// ForTier returns the tier's catalog: the first CatalogSize statements by ID.
// A master catalog shorter than CatalogSize is returned whole.
func ForTier(cat domain.Catalog, spec domain.TierSpec) []domain.Statement {
	statements := make([]domain.Statement, len(cat.Statements))
	copy(statements, cat.Statements)
	sortByID(statements)
	if spec.CatalogSize < len(statements) {
		statements = statements[:spec.CatalogSize]
	}
	return statements
}

func sortByID(statements []domain.Statement) {
	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].ID < statements[j].ID
	})
}
