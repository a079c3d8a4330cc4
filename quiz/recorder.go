package quiz

import (
	"context"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

// Recorder turns a student's answers into a persisted Result.
type Recorder struct {
	gate     Gate
	catalog  CatalogStore
	results  ResultStore
	attempts AttemptStore
	ranks    RankRefresher
	now      func() time.Time
}

func NewRecorder(gate Gate, catalog CatalogStore, results ResultStore, attempts AttemptStore, ranks RankRefresher) *Recorder {
	return &Recorder{
		gate:     gate,
		catalog:  catalog,
		results:  results,
		attempts: attempts,
		ranks:    ranks,
		now:      time.Now,
	}
}

// StartAttempt snapshots the quiz's current questions for the caller. The
// snapshot is what SubmitAttempt grades against, so admin edits made while the
// student is answering do not change total_questions.
func (r *Recorder) StartAttempt(ctx context.Context, quizID string) (*models.AttemptView, error) {
	userID, err := requireUser(ctx, r.gate)
	if err != nil {
		return nil, err
	}

	quiz, questions, err := r.loadPlayableQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt := &models.Attempt{
		ID:        utils.NewID(),
		UserID:    userID,
		QuizID:    quiz.ID,
		Questions: questions,
		StartedAt: r.now().UTC(),
	}
	if err := r.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, StoreFailure("start attempt", err)
	}

	public := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}

	utils.LogInfo("User %s started attempt %s on quiz %s (%d questions)", userID, attempt.ID, quiz.ID, len(questions))
	return &models.AttemptView{
		AttemptID: attempt.ID,
		Quiz:      *quiz,
		Questions: public,
		StartedAt: attempt.StartedAt,
	}, nil
}

// SubmitAttempt grades answers against the attempt's snapshot. Retrying a
// submission for the same attempt returns the Result already recorded.
func (r *Recorder) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]string) (*models.Result, error) {
	userID, err := requireUser(ctx, r.gate)
	if err != nil {
		return nil, err
	}

	attempt, err := r.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, StoreFailure("load attempt", err)
	}
	if attempt.UserID != userID {
		return nil, NotFound("attempt %s not found", attemptID)
	}

	return r.record(ctx, userID, attempt.QuizID, attempt.ID, attempt.Questions, answers)
}

// SubmitQuiz grades answers against the quiz's questions as they are now.
// Without an attempt key, a retried request records a second Result.
func (r *Recorder) SubmitQuiz(ctx context.Context, quizID string, answers map[string]string) (*models.Result, error) {
	userID, err := requireUser(ctx, r.gate)
	if err != nil {
		return nil, err
	}

	quiz, questions, err := r.loadPlayableQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return r.record(ctx, userID, quiz.ID, "", questions, answers)
}

func (r *Recorder) loadPlayableQuiz(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error) {
	quiz, err := r.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, StoreFailure("load quiz", err)
	}
	if !quiz.Active {
		return nil, nil, InvalidQuizState("cannot take this quiz: it is not active")
	}

	questions, err := r.catalog.GetQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, nil, StoreFailure("load questions", err)
	}
	if len(questions) == 0 {
		return nil, nil, InvalidQuizState("cannot take this quiz: it has no questions")
	}
	return quiz, questions, nil
}

func (r *Recorder) record(ctx context.Context, userID, quizID, attemptID string, questions []models.Question, answers map[string]string) (*models.Result, error) {
	grade, err := GradeAnswers(questions, answers)
	if err != nil {
		utils.LogInfo("Rejected submission by user %s for quiz %s: %v", userID, quizID, err)
		return nil, err
	}

	result := &models.Result{
		ID:             utils.NewID(),
		UserID:         userID,
		QuizID:         quizID,
		AttemptID:      attemptID,
		Score:          grade.Score,
		TotalQuestions: grade.TotalQuestions,
		Percentage:     grade.Percentage,
		CreatedAt:      r.now().UTC(),
	}

	stored, created, err := r.results.InsertResult(ctx, result)
	if err != nil {
		utils.LogError("Failed to record result for user %s quiz %s: %v", userID, quizID, err)
		return nil, StoreFailure("save result", err)
	}

	if !created {
		utils.LogInfo("Attempt %s already recorded as result %s", attemptID, stored.ID)
		return stored, nil
	}

	utils.LogInfo("Recorded result %s: user %s quiz %s scored %d/%d (%.1f%%)",
		stored.ID, userID, quizID, stored.Score, stored.TotalQuestions, stored.Percentage)

	if r.ranks != nil {
		if err := r.ranks.RequestRankRecompute(ctx); err != nil {
			utils.LogError("Failed to request rank recompute after result %s: %v", stored.ID, err)
		}
	}
	return stored, nil
}
