package quiz

import (
	"sort"

	"github.com/adamspd/QuizTrack/models"
)

// XPPerAttempt is awarded for every recorded Result, retakes included.
const XPPerAttempt = 10

// NoRank is shown when a user has not been ranked yet.
const NoRank = "-"

// newerResult orders results by created_at, breaking identical timestamps in
// favor of the higher id.
func newerResult(a, b models.Result) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// LatestResult picks the newest result for quizID, or nil if there is none.
func LatestResult(results []models.Result, quizID string) *models.Result {
	var latest *models.Result
	for i := range results {
		if results[i].QuizID != quizID {
			continue
		}
		if latest == nil || newerResult(results[i], *latest) {
			latest = &results[i]
		}
	}
	return latest
}

// DeriveStatus labels a quiz from the user's latest result on it.
func DeriveStatus(latest *models.Result) string {
	switch {
	case latest == nil:
		return models.StatusNotAttempted
	case latest.Percentage == 100:
		return models.StatusCompleted
	default:
		return models.StatusInProgress
	}
}

// Accuracy is the mean percentage across results, rounded to one decimal.
func Accuracy(results []models.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Percentage
	}
	return RoundOneDecimal(sum / float64(len(results)))
}

// SummarizeStats derives the dashboard numbers. rank is passed through as-is.
func SummarizeStats(quizzes []models.Quiz, results []models.Result, rank string) models.DashboardStats {
	if rank == "" {
		rank = NoRank
	}
	return models.DashboardStats{
		TotalQuizzes:     len(quizzes),
		CompletedQuizzes: len(results),
		TotalXP:          len(results) * XPPerAttempt,
		Accuracy:         Accuracy(results),
		Rank:             rank,
	}
}

// BuildQuizCards merges each quiz with its latest result, preserving quiz order.
func BuildQuizCards(quizzes []models.Quiz, results []models.Result) []models.QuizCard {
	cards := make([]models.QuizCard, 0, len(quizzes))
	for _, q := range quizzes {
		card := models.QuizCard{Quiz: q}
		latest := LatestResult(results, q.ID)
		card.Status = DeriveStatus(latest)
		if latest != nil {
			score := latest.Score
			total := latest.TotalQuestions
			pct := RoundOneDecimal(latest.Percentage)
			at := latest.CreatedAt
			card.LastScore = &score
			card.LastTotal = &total
			card.LastPercentage = &pct
			card.LastAttemptAt = &at
		}
		cards = append(cards, card)
	}
	return cards
}

// Aggregate builds the student dashboard. It is a pure function of its inputs.
func Aggregate(user models.User, quizzes []models.Quiz, results []models.Result) models.Dashboard {
	return models.Dashboard{
		User:    user,
		Stats:   SummarizeStats(quizzes, results, user.Rank),
		Quizzes: BuildQuizCards(quizzes, results),
	}
}

// BuildHistory joins results with their quizzes, newest first. Results whose
// quiz has since been deleted keep an empty title.
func BuildHistory(results []models.Result, quizzes []models.Quiz) []models.HistoryEntry {
	byID := make(map[string]models.Quiz, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = q
	}

	ordered := make([]models.Result, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return newerResult(ordered[i], ordered[j])
	})

	history := make([]models.HistoryEntry, 0, len(ordered))
	for _, r := range ordered {
		q := byID[r.QuizID]
		history = append(history, models.HistoryEntry{
			ResultID:       r.ID,
			QuizID:         r.QuizID,
			QuizTitle:      q.Title,
			QuizLevel:      q.Level,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Percentage:     RoundOneDecimal(r.Percentage),
			Band:           Band(r.Percentage),
			CreatedAt:      r.CreatedAt,
		})
	}
	return history
}
