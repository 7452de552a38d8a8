package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/stemsi/qna-backend/internal/model"
)

// QuestionStore holds every question in memory. It is created once at
// startup and shared by pointer; all access goes through its lock.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[model.QuestionID]model.Question
}

// NewQuestionStore creates a QuestionStore seeded with the given questions.
// Later entries overwrite earlier ones sharing an id.
func NewQuestionStore(seed []model.Question) *QuestionStore {
	s := &QuestionStore{questions: make(map[model.QuestionID]model.Question, len(seed))}
	for _, q := range seed {
		s.questions[q.ID] = q
	}
	return s
}

// ListAll returns a snapshot of all questions ordered by id.
// The snapshot is taken under a single read lock.
func (s *QuestionStore) ListAll(ctx context.Context) []model.Question {
	s.mu.RLock()
	out := make([]model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, cloneQuestion(q))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Insert stores q, replacing any question with the same id.
func (s *QuestionStore) Insert(ctx context.Context, q model.Question) {
	q = cloneQuestion(q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
}

// Count returns the number of stored questions.
func (s *QuestionStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// cloneQuestion copies the tag slice so callers never share backing arrays
// with the map.
func cloneQuestion(q model.Question) model.Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}
