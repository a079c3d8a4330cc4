package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

// CreateAttempt stores the question snapshot, answer key included, as JSON.
func (db *DB) CreateAttempt(ctx context.Context, a *models.Attempt) error {
	utils.LogDB("Creating attempt: user %s, quiz %s, %d questions", a.UserID, a.QuizID, len(a.Questions))
	start := time.Now()

	snapshot, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}

	_, err = db.exec(ctx, `
		INSERT INTO attempts (id, user_id, quiz_id, questions_json, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.QuizID, string(snapshot), a.StartedAt)
	if err != nil {
		utils.LogError("CreateAttempt failed: %v (%v)", err, time.Since(start))
		return err
	}

	utils.LogDB("Attempt %s created in %v", a.ID, time.Since(start))
	return nil
}

func (db *DB) GetAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	utils.LogDB("Executing query: GetAttempt(%s)", id)

	var a models.Attempt
	var snapshot string
	var resultID sql.NullString
	err := db.queryRow(ctx, `
		SELECT a.id, a.user_id, a.quiz_id, a.questions_json, a.started_at, r.id
		FROM attempts a
		LEFT JOIN results r ON r.attempt_id = a.id
		WHERE a.id = ?
	`, id).Scan(&a.ID, &a.UserID, &a.QuizID, &snapshot, &a.StartedAt, &resultID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Attempt %s not found", id)
			return nil, quiz.NotFound("attempt %s not found", id)
		}
		utils.LogError("GetAttempt(%s) failed: %v", id, err)
		return nil, err
	}

	if err := json.Unmarshal([]byte(snapshot), &a.Questions); err != nil {
		utils.LogError("Corrupt question snapshot for attempt %s: %v", id, err)
		return nil, err
	}
	a.ResultID = resultID.String
	return &a, nil
}
