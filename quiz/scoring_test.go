package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamspd/QuizTrack/models"
)

func fourQuestions() []models.Question {
	mk := func(id, correct string) models.Question {
		return models.Question{ID: id, OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", CorrectOption: correct}
	}
	return []models.Question{mk("q1", "A"), mk("q2", "B"), mk("q3", "C"), mk("q4", "D")}
}

func TestGradeAnswers_UnknownLetterIsWrong(t *testing.T) {
	grade, err := GradeAnswers(fourQuestions(), map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "X"})
	require.NoError(t, err)

	assert.Equal(t, 3, grade.Score)
	assert.Equal(t, 4, grade.TotalQuestions)
	assert.Equal(t, 75.0, grade.Percentage)
}

func TestGradeAnswers_AllCorrect(t *testing.T) {
	grade, err := GradeAnswers(fourQuestions(), map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, grade.Percentage)
}

func TestGradeAnswers_AllWrong(t *testing.T) {
	grade, err := GradeAnswers(fourQuestions(), map[string]string{"q1": "B", "q2": "C", "q3": "D", "q4": "A"})
	require.NoError(t, err)
	assert.Equal(t, 0, grade.Score)
	assert.Equal(t, 0.0, grade.Percentage)
}

func TestGradeAnswers_CaseSensitive(t *testing.T) {
	grade, err := GradeAnswers(fourQuestions(), map[string]string{"q1": "a", "q2": "B", "q3": "C", "q4": "D"})
	require.NoError(t, err)
	assert.Equal(t, 3, grade.Score)
}

func TestGradeAnswers_Incomplete(t *testing.T) {
	_, err := GradeAnswers(fourQuestions(), map[string]string{"q1": "A", "q2": "B", "q3": " "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Contains(t, qe.Fields, "q3")
	assert.Contains(t, qe.Fields, "q4")
	assert.Contains(t, qe.Message, "2 of 4")
}

func TestGradeAnswers_UnknownQuestion(t *testing.T) {
	answers := map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D", "q9": "A"}
	_, err := GradeAnswers(fourQuestions(), answers)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestGradeAnswers_NoQuestionsBeforeCompleteness(t *testing.T) {
	_, err := GradeAnswers(nil, map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuizState))
}

func TestGradeAnswers_MalformedQuestion(t *testing.T) {
	questions := fourQuestions()
	questions[2].OptionC = ""
	_, err := GradeAnswers(questions, map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"})
	require.Error(t, err)
	assert.Equal(t, KindInvalidQuizState, KindOf(err))
}

func TestPercentage(t *testing.T) {
	pct, err := Percentage(1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 33.333, pct, 0.001)

	_, err = Percentage(0, 0)
	assert.Equal(t, KindInvalidQuizState, KindOf(err))

	_, err = Percentage(5, 4)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestBand(t *testing.T) {
	assert.Equal(t, models.BandExcellent, Band(75))
	assert.Equal(t, models.BandGood, Band(74.9))
	assert.Equal(t, models.BandGood, Band(50))
	assert.Equal(t, models.BandNeedsImprovement, Band(49.9))
}

func TestValidateQuestionForGrading(t *testing.T) {
	q := fourQuestions()[0]
	assert.NoError(t, ValidateQuestionForGrading(q))

	q.CorrectOption = "E"
	err := ValidateQuestionForGrading(q)
	require.Error(t, err)
	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Contains(t, qe.Fields, "correct_option")
}

func TestErrorKinds(t *testing.T) {
	wrapped := StoreFailure("save result", errBroken)
	assert.True(t, errors.Is(wrapped, ErrStore))
	assert.True(t, errors.Is(wrapped, errBroken))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	nf := NotFound("quiz %s not found", "x")
	assert.Same(t, nf, StoreFailure("load quiz", nf))
	assert.Nil(t, StoreFailure("noop", nil))
	assert.Equal(t, Kind(""), KindOf(errBroken))
}
