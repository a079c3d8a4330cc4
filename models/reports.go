package models

import "time"

// QuizReport is the per-quiz line of the admin reports view
type QuizReport struct {
	Quiz
	AttemptCount      int     `json:"attempt_count"`
	AveragePercentage float64 `json:"average_percentage"`
}

// AdminStats backs the admin dashboard
type AdminStats struct {
	TotalQuizzes  int    `json:"total_quizzes"`
	ActiveQuizzes int    `json:"active_quizzes"`
	TotalStudents int    `json:"total_students"`
	RecentQuizzes []Quiz `json:"recent_quizzes"`
}

// StudentTotals is the raw input for rank computation
type StudentTotals struct {
	UserID        string
	Attempts      int
	PercentageSum float64
	SignedUpAt    time.Time
}
