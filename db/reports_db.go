package db

import (
	"context"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

// QuizReports returns each quiz with question count, attempt count and the
// mean percentage of its results, newest quiz first.
func (db *DB) QuizReports(ctx context.Context) ([]models.QuizReport, error) {
	utils.LogDB("Building quiz reports")
	start := time.Now()

	rows, err := db.query(ctx, `
		SELECT q.id, q.title, q.description, q.level, q.active, q.created_at,
			(SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id),
			COUNT(r.id),
			COALESCE(AVG(r.percentage), 0.0)
		FROM quizzes q
		LEFT JOIN results r ON r.quiz_id = q.id
		GROUP BY q.id, q.title, q.description, q.level, q.active, q.created_at
		ORDER BY q.created_at DESC, q.id
	`)
	if err != nil {
		utils.LogError("QuizReports query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	reports := []models.QuizReport{}
	for rows.Next() {
		var rep models.QuizReport
		err := rows.Scan(&rep.ID, &rep.Title, &rep.Description, &rep.Level, &rep.Active, &rep.CreatedAt,
			&rep.QuestionCount, &rep.AttemptCount, &rep.AveragePercentage)
		if err != nil {
			utils.LogError("Failed to scan report row: %v", err)
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("QuizReports completed: %d quizzes in %v", len(reports), time.Since(start))
	return reports, nil
}
