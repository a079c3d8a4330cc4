package models

import "time"

const (
	StatusNotAttempted = "Not Attempted"
	StatusInProgress   = "In Progress"
	StatusCompleted    = "Completed"
)

const (
	BandExcellent        = "excellent"
	BandGood             = "good"
	BandNeedsImprovement = "needs_improvement"
)

// QuizCard is a quiz as shown on a student's dashboard
type QuizCard struct {
	Quiz
	Status         string     `json:"status"`
	LastScore      *int       `json:"last_score,omitempty"`
	LastTotal      *int       `json:"last_total,omitempty"`
	LastPercentage *float64   `json:"last_percentage,omitempty"`
	LastAttemptAt  *time.Time `json:"last_attempt_at,omitempty"`
}

// DashboardStats summarizes a student's attempts
type DashboardStats struct {
	TotalQuizzes     int     `json:"total_quizzes"`
	CompletedQuizzes int     `json:"completed_quizzes"`
	TotalXP          int     `json:"total_xp"`
	Accuracy         float64 `json:"accuracy"`
	Rank             string  `json:"rank"`
}

// Dashboard is the full student dashboard view-model
type Dashboard struct {
	User    User           `json:"user"`
	Stats   DashboardStats `json:"stats"`
	Quizzes []QuizCard     `json:"quizzes"`
}

// HistoryEntry is one Result joined with its quiz for history views
type HistoryEntry struct {
	ResultID       string    `json:"result_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	QuizLevel      string    `json:"quiz_level"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	Band           string    `json:"band"`
	CreatedAt      time.Time `json:"created_at"`
}
