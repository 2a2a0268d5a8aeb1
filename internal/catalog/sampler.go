package catalog

import (
	"math/rand"
	"sync"
	"time"

	"mbti-quiz-service/internal/domain"
)

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Sampler draws dimension-balanced random subsets of a catalog.
type Sampler struct {
	mu  sync.Mutex
	src Source
}

// NewSampler seeds from the wall clock, like the cache jitter source.
func NewSampler() *Sampler {
	return NewSamplerWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSamplerWithSource allows reproducible sampling in tests.
func NewSamplerWithSource(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample returns at most targetCount statements, taking up to
// ceil(targetCount/4) from each dimension. Small groups under-fill silently.
func (s *Sampler) Sample(statements []domain.Statement, targetCount int) []domain.Statement {
	if targetCount <= 0 {
		return []domain.Statement{}
	}
	perDimension := (targetCount + 3) / 4

	groups := make(map[domain.Dimension][]domain.Statement, len(domain.Dimensions))
	for _, st := range statements {
		groups[st.Dimension] = append(groups[st.Dimension], st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]domain.Statement, 0, 4*perDimension)
	for _, d := range domain.Dimensions {
		group := groups[d]
		s.shuffleLocked(group)
		if len(group) > perDimension {
			group = group[:perDimension]
		}
		selected = append(selected, group...)
	}

	s.shuffleLocked(selected)
	if len(selected) > targetCount {
		selected = selected[:targetCount]
	}
	return selected
}

// shuffleLocked is a Fisher-Yates shuffle in place.
func (s *Sampler) shuffleLocked(statements []domain.Statement) {
	for i := len(statements) - 1; i > 0; i-- {
		j := s.src.Intn(i + 1)
		statements[i], statements[j] = statements[j], statements[i]
	}
}
