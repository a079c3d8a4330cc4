package models

import "time"

const (
	LevelEasy   = "Easy"
	LevelMedium = "Medium"
	LevelHard   = "Hard"
)

// OptionLetters are the only valid answer letters, in display order.
var OptionLetters = []string{"A", "B", "C", "D"}

// Quiz is a leveled collection of questions
type Quiz struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Level         string    `json:"level"`
	Active        bool      `json:"active"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Question is one multiple-choice item with exactly four options
type Question struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quiz_id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Option returns the text for an option letter and whether the letter is known.
func (q *Question) Option(letter string) (string, bool) {
	switch letter {
	case "A":
		return q.OptionA, true
	case "B":
		return q.OptionB, true
	case "C":
		return q.OptionC, true
	case "D":
		return q.OptionD, true
	}
	return "", false
}

// Public strips the answer key before a question is shown to a student.
func (q Question) Public() Question {
	q.CorrectOption = ""
	return q
}

// QuizRequest for creating a quiz together with its questions
type QuizRequest struct {
	Title       string            `json:"title" validate:"required,min=3,max=100"`
	Description string            `json:"description" validate:"max=1000"`
	Level       string            `json:"level" validate:"required,oneof=Easy Medium Hard"`
	Active      *bool             `json:"active,omitempty"`
	Questions   []QuestionRequest `json:"questions,omitempty" validate:"dive"`
}

// QuizUpdateRequest for editing quiz fields; nil fields are left unchanged
type QuizUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Level       *string `json:"level,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	Active      *bool   `json:"active,omitempty"`
}

// QuestionRequest for creating/updating questions
type QuestionRequest struct {
	QuestionText  string `json:"question_text" validate:"required,max=1000"`
	OptionA       string `json:"option_a" validate:"required,max=500"`
	OptionB       string `json:"option_b" validate:"required,max=500"`
	OptionC       string `json:"option_c" validate:"required,max=500"`
	OptionD       string `json:"option_d" validate:"required,max=500"`
	CorrectOption string `json:"correct_option" validate:"required,oneof=A B C D"`
}
