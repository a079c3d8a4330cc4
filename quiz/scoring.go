package quiz

import (
	"fmt"
	"math"
	"strings"

	"github.com/adamspd/QuizTrack/models"
)

// Grade is the outcome of scoring one complete answer set.
type Grade struct {
	Score          int
	TotalQuestions int
	Percentage     float64
}

// ValidateAnswers checks that every question has a non-empty answer and that
// the mapping names no question outside the quiz. Letters outside A-D are not
// rejected here; they simply never match a correct option.
func ValidateAnswers(questions []models.Question, answers map[string]string) error {
	fields := make(map[string]string)
	known := make(map[string]struct{}, len(questions))

	missing := 0
	for _, q := range questions {
		known[q.ID] = struct{}{}
		if strings.TrimSpace(answers[q.ID]) == "" {
			fields[q.ID] = "answer is required"
			missing++
		}
	}
	for questionID := range answers {
		if _, ok := known[questionID]; !ok {
			fields[questionID] = "question does not belong to this quiz"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	if missing > 0 {
		return Validation(fmt.Sprintf("please answer all questions before submitting (%d of %d unanswered)", missing, len(questions)), fields)
	}
	return Validation("submission contains unknown questions", fields)
}

// ScoreAnswers counts exact, case-sensitive matches against the correct option.
// Every question is visited so partial credit is always reported.
func ScoreAnswers(questions []models.Question, answers map[string]string) int {
	correct := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectOption {
			correct++
		}
	}
	return correct
}

// Percentage returns score/total*100. A quiz without questions has no
// meaningful percentage and is reported as InvalidQuizState.
func Percentage(score, total int) (float64, error) {
	if total <= 0 {
		return 0, InvalidQuizState("quiz has no questions")
	}
	if score < 0 || score > total {
		return 0, Validation(fmt.Sprintf("score %d out of range for %d questions", score, total), nil)
	}
	return float64(score) / float64(total) * 100, nil
}

// GradeAnswers runs the full precondition, scoring and percentage pipeline in
// that order.
func GradeAnswers(questions []models.Question, answers map[string]string) (Grade, error) {
	if len(questions) == 0 {
		return Grade{}, InvalidQuizState("cannot take this quiz: it has no questions")
	}
	for _, q := range questions {
		if err := ValidateQuestionForGrading(q); err != nil {
			return Grade{}, InvalidQuizState("cannot take this quiz: question %s is malformed", q.ID)
		}
	}
	if err := ValidateAnswers(questions, answers); err != nil {
		return Grade{}, err
	}

	score := ScoreAnswers(questions, answers)
	pct, err := Percentage(score, len(questions))
	if err != nil {
		return Grade{}, err
	}

	return Grade{
		Score:          score,
		TotalQuestions: len(questions),
		Percentage:     pct,
	}, nil
}

// RoundOneDecimal rounds a percentage for display.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// Band buckets a percentage the way result screens color it.
func Band(percentage float64) string {
	switch {
	case percentage >= 75:
		return models.BandExcellent
	case percentage >= 50:
		return models.BandGood
	default:
		return models.BandNeedsImprovement
	}
}

// ValidateQuestionForGrading enforces the four-option invariant: every option
// present and the correct option pointing at one of them.
func ValidateQuestionForGrading(q models.Question) error {
	fields := make(map[string]string)
	for _, letter := range models.OptionLetters {
		text, _ := q.Option(letter)
		if strings.TrimSpace(text) == "" {
			fields["option_"+strings.ToLower(letter)] = "is required"
		}
	}
	if text, ok := q.Option(q.CorrectOption); !ok {
		fields["correct_option"] = "must be one of: A B C D"
	} else if strings.TrimSpace(text) == "" {
		fields["correct_option"] = "must reference a non-empty option"
	}
	if len(fields) > 0 {
		return Validation("question must have four options and a valid correct option", fields)
	}
	return nil
}
