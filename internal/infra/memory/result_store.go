package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-retake-service/internal/domain"
)

// ResultStore is an in-process ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.QuizResult)}
}

func (s *ResultStore) CreateResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result.Clone()
	return nil
}

func (s *ResultStore) GetResult(_ context.Context, resultID string) (domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[resultID]
	if !ok {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return result.Clone(), nil
}

func (s *ResultStore) DeleteResult(_ context.Context, resultID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[resultID]; !ok {
		return domain.ErrResultNotFound
	}
	delete(s.results, resultID)
	return nil
}

func (s *ResultStore) ListResultsByOwner(_ context.Context, ownerID string) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, 0)
	for _, result := range s.results {
		if result.OwnerID == ownerID {
			out = append(out, result.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}
