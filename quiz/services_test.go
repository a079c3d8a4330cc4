package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamspd/QuizTrack/models"
)

func validQuestion(correct string) models.QuestionRequest {
	return models.QuestionRequest{
		QuestionText: "2 + 2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22",
		CorrectOption: correct,
	}
}

func TestCatalog_RequiresAdmin(t *testing.T) {
	svc := NewCatalogService(studentGate("u1"), newMemStore())
	_, err := svc.ListQuizzes(context.Background())
	assert.True(t, errors.Is(err, ErrForbidden))

	svc = NewCatalogService(fakeGate{}, newMemStore())
	_, err = svc.ListQuizzes(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCatalog_CreateAndEdit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCatalogService(adminGate(), store)

	created, err := svc.CreateQuiz(ctx, models.QuizRequest{
		Title:     "  Arithmetic ",
		Level:     models.LevelMedium,
		Questions: []models.QuestionRequest{validQuestion("B"), validQuestion("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Arithmetic", created.Title)
	assert.True(t, created.Active)
	assert.Equal(t, 2, created.QuestionCount)

	detail, err := svc.GetQuiz(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, "B", detail.Questions[0].CorrectOption)

	toggled, err := svc.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	level := models.LevelHard
	updated, err := svc.UpdateQuiz(ctx, created.ID, models.QuizUpdateRequest{Level: &level})
	require.NoError(t, err)
	assert.Equal(t, models.LevelHard, updated.Level)
	assert.False(t, updated.Active)

	q, err := svc.AddQuestion(ctx, created.ID, validQuestion("D"))
	require.NoError(t, err)
	edited, err := svc.UpdateQuestion(ctx, q.ID, validQuestion("C"))
	require.NoError(t, err)
	assert.Equal(t, "C", edited.CorrectOption)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))
	require.NoError(t, svc.DeleteQuiz(ctx, created.ID))
	assert.Empty(t, store.questions)

	_, err = svc.GetQuiz(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCatalog_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(adminGate(), newMemStore())

	_, err := svc.CreateQuiz(ctx, models.QuizRequest{Title: "Ok title", Level: "Impossible"})
	require.Error(t, err)
	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, KindValidation, qe.Kind)
	assert.Contains(t, qe.Fields, "level")

	bad := validQuestion("E")
	_, err = svc.CreateQuiz(ctx, models.QuizRequest{Title: "Ok title", Level: models.LevelEasy, Questions: []models.QuestionRequest{bad}})
	assert.True(t, errors.Is(err, ErrValidation))

	blank := validQuestion("A")
	blank.OptionC = "   "
	_, err = svc.CreateQuiz(ctx, models.QuizRequest{Title: "Ok title", Level: models.LevelEasy, Questions: []models.QuestionRequest{blank}})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProgress_HistoryAndLatest(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	gate := studentGate("u1")
	progress := NewProgressService(gate, store, store, store)

	_, err := progress.Latest(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	rec := newTestRecorder(store, gate, nil)
	_, err = rec.SubmitQuiz(ctx, "algebra", map[string]string{"q1": "A", "q2": "A", "q3": "A", "q4": "A"})
	require.NoError(t, err)
	_, err = rec.SubmitQuiz(ctx, "algebra", map[string]string{"q1": "A", "q2": "B", "q3": "A", "q4": "A"})
	require.NoError(t, err)

	history, err := progress.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 50.0, history[0].Percentage)
	assert.Equal(t, "Algebra Basics", history[0].QuizTitle)

	latest, err := progress.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, history[0].ResultID, latest.ResultID)
	assert.Equal(t, models.BandGood, latest.Band)
}

func TestProgress_StoreFailure(t *testing.T) {
	store := seededStore()
	store.failList = true
	_, err := NewProgressService(studentGate("u1"), store, store, store).Dashboard(context.Background())
	assert.True(t, errors.Is(err, ErrStore))
}

func TestProgress_AvailableQuizzesHidesInactive(t *testing.T) {
	store := seededStore()
	store.seedQuiz("hidden", "Hidden", false, "A")
	quizzes, err := NewProgressService(studentGate("u1"), store, store, store).AvailableQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "algebra", quizzes[0].ID)
}

func TestReports_DashboardAndRoster(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	store.seedQuiz("hidden", "Hidden", false, "A")
	store.users["admin-1"] = models.User{ID: "admin-1", Role: models.RoleAdmin, CreatedAt: baseTime}
	store.users["u2"] = models.User{ID: "u2", Role: models.RoleStudent, CreatedAt: baseTime.Add(time.Hour)}
	store.results = []models.Result{
		{ID: "r1", UserID: "u1", QuizID: "algebra", Percentage: 75},
		{ID: "r2", UserID: "u2", QuizID: "algebra", Percentage: 100.0 / 3},
	}

	refresher := &countingRefresher{}
	svc := NewReportService(adminGate(), store, store, store, store, refresher)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalQuizzes)
	assert.Equal(t, 1, stats.ActiveQuizzes)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Len(t, stats.RecentQuizzes, 2)

	reports, err := svc.QuizReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "algebra", reports[0].ID)
	assert.Equal(t, 4, reports[0].QuestionCount)
	assert.Equal(t, 2, reports[0].AttemptCount)
	assert.Equal(t, 54.2, reports[0].AveragePercentage)

	results, err := svc.QuizResults(ctx, "algebra")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	students, err := svc.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "u2", students[0].ID)

	err = svc.DeleteStudent(ctx, "admin-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, svc.DeleteStudent(ctx, "u2"))
	assert.Len(t, store.results, 1)
	assert.Equal(t, 1, refresher.calls)
}

func TestReports_RequiresAdmin(t *testing.T) {
	svc := NewReportService(studentGate("u1"), newMemStore(), newMemStore(), newMemStore(), newMemStore(), nil)
	_, err := svc.Dashboard(context.Background())
	assert.True(t, errors.Is(err, ErrForbidden))
}
