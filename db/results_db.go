package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

const resultColumns = "id, user_id, quiz_id, attempt_id, score, total_questions, percentage, created_at"

func scanResult(row interface{ Scan(...interface{}) error }, r *models.Result) error {
	var attemptID sql.NullString
	if err := row.Scan(&r.ID, &r.UserID, &r.QuizID, &attemptID, &r.Score, &r.TotalQuestions, &r.Percentage, &r.CreatedAt); err != nil {
		return err
	}
	r.AttemptID = attemptID.String
	return nil
}

// InsertResult records a result. A second insert for the same attempt is a
// no-op that returns the stored row with created=false.
func (db *DB) InsertResult(ctx context.Context, r *models.Result) (*models.Result, bool, error) {
	utils.LogDB("Recording result: user %s, quiz %s, attempt %q", r.UserID, r.QuizID, r.AttemptID)
	start := time.Now()

	attemptID := sql.NullString{String: r.AttemptID, Valid: r.AttemptID != ""}
	res, err := db.exec(ctx, `
		INSERT INTO results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (attempt_id) DO NOTHING
	`, r.ID, r.UserID, r.QuizID, attemptID, r.Score, r.TotalQuestions, r.Percentage, r.CreatedAt)
	if err != nil {
		utils.LogError("InsertResult failed: %v (%v)", err, time.Since(start))
		return nil, false, err
	}

	if n, _ := res.RowsAffected(); n == 0 && attemptID.Valid {
		var existing models.Result
		err := scanResult(db.queryRow(ctx, "SELECT "+resultColumns+" FROM results WHERE attempt_id = ?", r.AttemptID), &existing)
		if err != nil {
			utils.LogError("Failed to load existing result for attempt %s: %v", r.AttemptID, err)
			return nil, false, err
		}
		utils.LogDB("Result for attempt %s already exists (%s) (%v)", r.AttemptID, existing.ID, time.Since(start))
		return &existing, false, nil
	}

	utils.LogDB("Result %s recorded (%d/%d) in %v", r.ID, r.Score, r.TotalQuestions, time.Since(start))
	stored := *r
	return &stored, true, nil
}

func (db *DB) ListResultsByUser(ctx context.Context, userID string) ([]models.Result, error) {
	return db.listResults(ctx, "user_id", userID)
}

func (db *DB) ListResultsByQuiz(ctx context.Context, quizID string) ([]models.Result, error) {
	return db.listResults(ctx, "quiz_id", quizID)
}

// listResults returns results newest first. column is never user input.
func (db *DB) listResults(ctx context.Context, column, value string) ([]models.Result, error) {
	utils.LogDB("Listing results by %s = %s", column, value)
	start := time.Now()

	rows, err := db.query(ctx, "SELECT "+resultColumns+" FROM results WHERE "+column+" = ? ORDER BY created_at DESC, id DESC", value)
	if err != nil {
		utils.LogError("listResults(%s) failed: %v", column, err)
		return nil, err
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		var r models.Result
		if err := scanResult(rows, &r); err != nil {
			utils.LogError("Failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("listResults(%s) returned %d rows in %v", column, len(results), time.Since(start))
	return results, nil
}
