package models

import "time"

// Result is the immutable record of one scored submission
type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	AttemptID      string    `json:"attempt_id,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	CreatedAt      time.Time `json:"created_at"`
}

// Attempt snapshots the questions a student was shown when starting a quiz,
// so grading uses the quiz as it was at start time.
type Attempt struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	QuizID    string     `json:"quiz_id"`
	Questions []Question `json:"questions"`
	StartedAt time.Time  `json:"started_at"`
	ResultID  string     `json:"result_id,omitempty"`
}

// AttemptView is what a student receives when starting an attempt.
type AttemptView struct {
	AttemptID string     `json:"attempt_id"`
	Quiz      Quiz       `json:"quiz"`
	Questions []Question `json:"questions"`
	StartedAt time.Time  `json:"started_at"`
}

// SubmitRequest maps question id to the selected option letter
type SubmitRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}
