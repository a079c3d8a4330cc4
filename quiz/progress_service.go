package quiz

import (
	"context"

	"github.com/adamspd/QuizTrack/models"
)

// ProgressService loads what a student's progress views need and hands it to
// the pure aggregation functions. It never writes.
type ProgressService struct {
	gate    Gate
	catalog CatalogStore
	results ResultStore
	users   UserStore
}

func NewProgressService(gate Gate, catalog CatalogStore, results ResultStore, users UserStore) *ProgressService {
	return &ProgressService{gate: gate, catalog: catalog, results: results, users: users}
}

// Dashboard returns stats and per-quiz status for the caller.
func (s *ProgressService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	userID, err := requireUser(ctx, s.gate)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, StoreFailure("load user", err)
	}
	quizzes, err := s.catalog.ListQuizzes(ctx, true)
	if err != nil {
		return nil, StoreFailure("list quizzes", err)
	}
	results, err := s.results.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, StoreFailure("list results", err)
	}

	dashboard := Aggregate(*user, quizzes, results)
	return &dashboard, nil
}

// History lists the caller's results newest first. Inactive quizzes still
// provide titles for results recorded against them.
func (s *ProgressService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	userID, err := requireUser(ctx, s.gate)
	if err != nil {
		return nil, err
	}

	results, err := s.results.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, StoreFailure("list results", err)
	}
	quizzes, err := s.catalog.ListQuizzes(ctx, false)
	if err != nil {
		return nil, StoreFailure("list quizzes", err)
	}
	return BuildHistory(results, quizzes), nil
}

// Latest returns the caller's most recent result.
func (s *ProgressService) Latest(ctx context.Context) (*models.HistoryEntry, error) {
	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, NotFound("no results yet")
	}
	return &history[0], nil
}

// AvailableQuizzes lists active quizzes for students, newest first.
func (s *ProgressService) AvailableQuizzes(ctx context.Context) ([]models.Quiz, error) {
	if _, err := requireUser(ctx, s.gate); err != nil {
		return nil, err
	}
	quizzes, err := s.catalog.ListQuizzes(ctx, true)
	if err != nil {
		return nil, StoreFailure("list quizzes", err)
	}
	return quizzes, nil
}
