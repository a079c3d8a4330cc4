package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamspd/QuizTrack/models"
)

func result(id, quizID string, pct float64, at time.Time) models.Result {
	return models.Result{ID: id, UserID: "u1", QuizID: quizID, Percentage: pct, Score: int(pct / 25), TotalQuestions: 4, CreatedAt: at}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, models.StatusNotAttempted, DeriveStatus(nil))
	assert.Equal(t, models.StatusInProgress, DeriveStatus(&models.Result{Percentage: 99.9}))
	assert.Equal(t, models.StatusCompleted, DeriveStatus(&models.Result{Percentage: 100}))
}

func TestLatestResult_LatestAttemptWins(t *testing.T) {
	results := []models.Result{
		result("r1", "quiz", 100, baseTime),
		result("r2", "quiz", 50, baseTime.Add(time.Hour)),
		result("r3", "other", 100, baseTime.Add(2*time.Hour)),
	}
	latest := LatestResult(results, "quiz")
	require.NotNil(t, latest)
	assert.Equal(t, "r2", latest.ID)
	assert.Equal(t, models.StatusInProgress, DeriveStatus(latest))
	assert.Nil(t, LatestResult(results, "missing"))
}

func TestLatestResult_TieGoesToHigherID(t *testing.T) {
	results := []models.Result{
		result("b", "quiz", 100, baseTime),
		result("a", "quiz", 25, baseTime),
	}
	assert.Equal(t, "b", LatestResult(results, "quiz").ID)

	// Input order must not matter.
	results[0], results[1] = results[1], results[0]
	assert.Equal(t, "b", LatestResult(results, "quiz").ID)
}

func TestSummarizeStats(t *testing.T) {
	quizzes := []models.Quiz{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	results := []models.Result{
		result("r1", "a", 100, baseTime),
		result("r2", "a", 50, baseTime.Add(time.Minute)),
		{ID: "r3", QuizID: "b", Percentage: 200.0 / 3, CreatedAt: baseTime},
	}

	stats := SummarizeStats(quizzes, results, "")
	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.Equal(t, 3, stats.CompletedQuizzes)
	assert.Equal(t, 30, stats.TotalXP)
	assert.Equal(t, 72.2, stats.Accuracy)
	assert.Equal(t, NoRank, stats.Rank)

	assert.Equal(t, "4", SummarizeStats(quizzes, results, "4").Rank)
}

func TestSummarizeStats_NoResults(t *testing.T) {
	stats := SummarizeStats([]models.Quiz{{ID: "a"}}, nil, "")
	assert.Equal(t, 0, stats.CompletedQuizzes)
	assert.Equal(t, 0, stats.TotalXP)
	assert.Equal(t, 0.0, stats.Accuracy)
}

func TestAggregate_IsRepeatable(t *testing.T) {
	user := models.User{ID: "u1", Name: "Ada", Rank: "2"}
	quizzes := []models.Quiz{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	results := []models.Result{result("r1", "a", 75, baseTime)}

	first := Aggregate(user, quizzes, results)
	second := Aggregate(user, quizzes, results)
	assert.Equal(t, first, second)

	require.Len(t, first.Quizzes, 2)
	assert.Equal(t, "a", first.Quizzes[0].ID)
	assert.Equal(t, models.StatusInProgress, first.Quizzes[0].Status)
	require.NotNil(t, first.Quizzes[0].LastPercentage)
	assert.Equal(t, 75.0, *first.Quizzes[0].LastPercentage)
	assert.Equal(t, models.StatusNotAttempted, first.Quizzes[1].Status)
	assert.Nil(t, first.Quizzes[1].LastScore)
	assert.Equal(t, "2", first.Stats.Rank)
}

func TestBuildHistory(t *testing.T) {
	quizzes := []models.Quiz{{ID: "a", Title: "Algebra", Level: models.LevelEasy}}
	results := []models.Result{
		result("r1", "a", 50, baseTime),
		result("r2", "a", 100, baseTime.Add(time.Hour)),
		result("r3", "gone", 25, baseTime.Add(30*time.Minute)),
	}

	history := BuildHistory(results, quizzes)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"r2", "r3", "r1"}, []string{history[0].ResultID, history[1].ResultID, history[2].ResultID})
	assert.Equal(t, "Algebra", history[0].QuizTitle)
	assert.Equal(t, models.BandExcellent, history[0].Band)
	assert.Equal(t, "", history[1].QuizTitle)
	assert.Equal(t, models.BandNeedsImprovement, history[1].Band)
	assert.Equal(t, models.BandGood, history[2].Band)

	// The caller's slice is left untouched.
	assert.Equal(t, "r1", results[0].ID)
}
