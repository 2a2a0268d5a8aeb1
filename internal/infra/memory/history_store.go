package memory

import (
	"context"
	"sync"

	"mbti-quiz-service/internal/domain"
)

// HistoryStore is an in-memory implementation of app.HistoryRepository.
type HistoryStore struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append replaces a result with the same ID in place, otherwise prepends it.
func (s *HistoryStore) Append(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.results {
		if s.results[i].ID == result.ID {
			s.results[i] = result
			return nil
		}
	}
	s.results = append([]domain.Result{result}, s.results...)
	return nil
}

func (s *HistoryStore) LoadAll(_ context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out, nil
}

func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	return nil
}
