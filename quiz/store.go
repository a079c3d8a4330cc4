package quiz

import (
	"context"

	"github.com/adamspd/QuizTrack/models"
)

// Gate resolves the authenticated caller. Implementations return an
// Unauthenticated error when no session is present.
type Gate interface {
	CurrentUserID(ctx context.Context) (string, error)
	CurrentRole(ctx context.Context) (string, error)
}

// CatalogStore holds quizzes and their questions. Missing rows are reported
// with a NotFound error.
type CatalogStore interface {
	GetQuiz(ctx context.Context, quizID string) (*models.Quiz, error)
	// GetQuestions returns the quiz's questions ordered by creation time.
	GetQuestions(ctx context.Context, quizID string) ([]models.Question, error)
	// ListQuizzes returns quizzes newest first.
	ListQuizzes(ctx context.Context, activeOnly bool) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.Question) error
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	GetQuestion(ctx context.Context, questionID string) (*models.Question, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	UpdateQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, questionID string) error
}

// ResultStore persists immutable results.
type ResultStore interface {
	// InsertResult stores r. When r.AttemptID is set and a result already
	// exists for that attempt, the existing result is returned with
	// created=false and nothing is written.
	InsertResult(ctx context.Context, r *models.Result) (stored *models.Result, created bool, err error)
	ListResultsByUser(ctx context.Context, userID string) ([]models.Result, error)
	ListResultsByQuiz(ctx context.Context, quizID string) ([]models.Result, error)
}

// AttemptStore keeps the question snapshot taken when an attempt starts.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *models.Attempt) error
	GetAttempt(ctx context.Context, attemptID string) (*models.Attempt, error)
}

// UserStore covers the user reads and writes the core needs.
type UserStore interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListStudents(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListStudentTotals(ctx context.Context) ([]models.StudentTotals, error)
	UpdateRanks(ctx context.Context, ranks map[string]string) error
}

// ReportStore computes per-quiz aggregates for admins.
type ReportStore interface {
	QuizReports(ctx context.Context) ([]models.QuizReport, error)
}

// RankRefresher is told when results change so ranks can be recomputed.
type RankRefresher interface {
	RequestRankRecompute(ctx context.Context) error
}

func requireUser(ctx context.Context, gate Gate) (string, error) {
	if gate == nil {
		return "", Unauthenticated("no session")
	}
	userID, err := gate.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", Unauthenticated("no session")
	}
	return userID, nil
}

func requireAdmin(ctx context.Context, gate Gate) (string, error) {
	userID, err := requireUser(ctx, gate)
	if err != nil {
		return "", err
	}
	role, err := gate.CurrentRole(ctx)
	if err != nil {
		return "", err
	}
	if role != models.RoleAdmin {
		return "", Forbidden("admin role required")
	}
	return userID, nil
}
