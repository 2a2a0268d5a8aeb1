package app

import (
	"context"
	"fmt"
	"time"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogRepository loads the master statement catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// HistoryRepository persists finalized results, most recent first.
// Append is an upsert keyed by result ID.
type HistoryRepository interface {
	Append(ctx context.Context, result domain.Result) error
	LoadAll(ctx context.Context) ([]domain.Result, error)
	Clear(ctx context.Context) error
}

// DescriptionRepository resolves narrative content for a type label.
type DescriptionRepository interface {
	Lookup(label string) (domain.TypeDescription, bool)
}

// Service wires the collaborators shared by every attempt.
type Service struct {
	catalogs     CatalogRepository
	history      HistoryRepository
	descriptions DescriptionRepository
	tiers        catalog.Tiers
	specs        []domain.TierSpec
	sampler      *catalog.Sampler
	logger       *zap.Logger
	now          func() time.Time
	newID        func() string
}

type Option func(*Service)

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSampler injects a seeded sampler.
func WithSampler(sampler *catalog.Sampler) Option {
	return func(s *Service) { s.sampler = sampler }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTiers overrides the reference tier sizing.
func WithTiers(specs []domain.TierSpec) Option {
	return func(s *Service) {
		s.specs = specs
		s.tiers = catalog.NewTiers(specs)
	}
}

func NewService(catalogs CatalogRepository, history HistoryRepository, descriptions DescriptionRepository, opts ...Option) *Service {
	specs := catalog.DefaultTiers()
	s := &Service{
		catalogs:     catalogs,
		history:      history,
		descriptions: descriptions,
		tiers:        catalog.NewTiers(specs),
		specs:        specs,
		sampler:      catalog.NewSampler(),
		logger:       zap.NewNop(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewEngine returns an idle engine for one test attempt.
func (s *Service) NewEngine() *Engine {
	return &Engine{svc: s, state: StateIdle}
}

// Tiers lists the configured tiers.
func (s *Service) Tiers() []domain.TierSpec {
	out := make([]domain.TierSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// History returns stored results, most recent first.
func (s *Service) History(ctx context.Context) ([]domain.Result, error) {
	results, err := s.history.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return results, nil
}

// ClearHistory forgets every stored result.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared")
	return nil
}

// Describe looks up the narrative for a label. A missing description is not an error.
func (s *Service) Describe(label string) (domain.TypeDescription, bool) {
	if s.descriptions == nil {
		return domain.TypeDescription{}, false
	}
	return s.descriptions.Lookup(label)
}

// Report joins a stored result with its description.
func (s *Service) Report(ctx context.Context, resultID string) (domain.Report, error) {
	results, err := s.History(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	for _, r := range results {
		if r.ID != resultID {
			continue
		}
		report := domain.Report{Result: r}
		if d, ok := s.Describe(r.Type); ok {
			report.Description = &d
		}
		return report, nil
	}
	return domain.Report{}, fmt.Errorf("%w: %s", domain.ErrResultNotFound, resultID)
}
