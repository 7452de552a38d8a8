package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/model"
	"github.com/stemsi/qna-backend/internal/repository"
	"github.com/stemsi/qna-backend/internal/response"
)

// Query parameter names used for pagination.
const (
	ParamStart = "start"
	ParamEnd   = "end"
)

// QuestionService handles question business logic.
type QuestionService struct {
	store     *repository.QuestionStore
	publisher feed.Publisher
	instance  string
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService. publisher may be nil,
// in which case added questions are not broadcast.
func NewQuestionService(store *repository.QuestionStore, publisher feed.Publisher, instance string, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		store:     store,
		publisher: publisher,
		instance:  instance,
		log:       logger.Component(log, "question_service"),
	}
}

// List returns every question when params is empty, otherwise the
// [start, end) window of the listing described by params.
func (s *QuestionService) List(ctx context.Context, params map[string]string) ([]model.Question, error) {
	if len(params) == 0 {
		return s.store.ListAll(ctx), nil
	}

	p, err := ExtractPagination(params)
	if err != nil {
		return nil, err
	}

	all := s.store.ListAll(ctx)
	if p.Start > p.End || p.End > len(all) {
		return nil, response.Errorf(response.ErrInvalidRange, "start=%d end=%d total=%d", p.Start, p.End, len(all))
	}
	return all[p.Start:p.End], nil
}

// Add stores q, replacing any question with the same id, and announces it
// on the feed. A failed announcement is logged, never returned.
func (s *QuestionService) Add(ctx context.Context, q model.Question) error {
	s.store.Insert(ctx, q)

	if s.publisher == nil {
		return nil
	}
	ev := feed.NewQuestionAdded(s.instance, q)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("question_id", string(q.ID)).
			Msg("failed to publish question event")
	}
	return nil
}

// Count returns the number of stored questions.
func (s *QuestionService) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// ExtractPagination parses start and end from params. Both keys must be
// present and hold non-negative base-10 integers. No relational check
// between the two is made here.
func ExtractPagination(params map[string]string) (model.Pagination, error) {
	rawStart, hasStart := params[ParamStart]
	rawEnd, hasEnd := params[ParamEnd]
	if !hasStart || !hasEnd {
		return model.Pagination{}, response.NewError(response.ErrMissingParameters, nil)
	}

	start, err := parseIndex(rawStart)
	if err != nil {
		return model.Pagination{}, err
	}
	end, err := parseIndex(rawEnd)
	if err != nil {
		return model.Pagination{}, err
	}

	return model.Pagination{Start: start, End: end}, nil
}

// parseIndex accepts an optional single leading '+'.
func parseIndex(raw string) (int, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, strconv.IntSize-1)
	if err != nil {
		return 0, response.NewError(response.ErrParseParameter, err)
	}
	return int(n), nil
}
