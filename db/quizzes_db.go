package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

const quizSelect = `
	SELECT q.id, q.title, q.description, q.level, q.active, q.created_at,
		(SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id)
	FROM quizzes q`

func scanQuiz(row interface{ Scan(...interface{}) error }, q *models.Quiz) error {
	return row.Scan(&q.ID, &q.Title, &q.Description, &q.Level, &q.Active, &q.CreatedAt, &q.QuestionCount)
}

func (db *DB) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	utils.LogDB("Executing query: GetQuiz(%s)", id)

	var q models.Quiz
	err := scanQuiz(db.queryRow(ctx, quizSelect+" WHERE q.id = ?", id), &q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Quiz %s not found", id)
			return nil, quiz.NotFound("quiz %s not found", id)
		}
		utils.LogError("GetQuiz(%s) failed: %v", id, err)
		return nil, err
	}
	return &q, nil
}

// ListQuizzes returns quizzes newest first with their question counts.
func (db *DB) ListQuizzes(ctx context.Context, activeOnly bool) ([]models.Quiz, error) {
	utils.LogDB("Listing quizzes (active only: %t)", activeOnly)
	start := time.Now()

	query := quizSelect
	var args []interface{}
	if activeOnly {
		query += " WHERE q.active = ?"
		args = append(args, true)
	}
	query += " ORDER BY q.created_at DESC, q.id"

	rows, err := db.query(ctx, query, args...)
	if err != nil {
		utils.LogError("ListQuizzes query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var q models.Quiz
		if err := scanQuiz(rows, &q); err != nil {
			utils.LogError("Failed to scan quiz row: %v", err)
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("ListQuizzes completed: %d quizzes in %v", len(quizzes), time.Since(start))
	return quizzes, nil
}

// CreateQuiz inserts the quiz and its questions atomically.
func (db *DB) CreateQuiz(ctx context.Context, q *models.Quiz, questions []models.Question) error {
	utils.LogDB("Creating quiz %q with %d questions", q.Title, len(questions))
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO quizzes (id, title, description, level, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), q.ID, q.Title, q.Description, q.Level, q.Active, q.CreatedAt)
		if err != nil {
			return err
		}
		for i := range questions {
			if err := insertQuestion(ctx, db, tx, &questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.LogError("CreateQuiz failed: %v (%v)", err, time.Since(start))
		return err
	}

	utils.LogDB("Quiz created with ID %s in %v", q.ID, time.Since(start))
	return nil
}

func (db *DB) UpdateQuiz(ctx context.Context, q *models.Quiz) error {
	utils.LogDB("Updating quiz %s", q.ID)
	start := time.Now()

	res, err := db.exec(ctx, `
		UPDATE quizzes SET title = ?, description = ?, level = ?, active = ?
		WHERE id = ?
	`, q.Title, q.Description, q.Level, q.Active, q.ID)
	if err != nil {
		utils.LogError("UpdateQuiz(%s) failed: %v (%v)", q.ID, err, time.Since(start))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.LogDB("UpdateQuiz(%s): no rows affected", q.ID)
		return quiz.NotFound("quiz %s not found", q.ID)
	}

	utils.LogDB("UpdateQuiz(%s) completed in %v", q.ID, time.Since(start))
	return nil
}

// DeleteQuiz removes the quiz, its questions and any open attempts. Results
// are kept.
func (db *DB) DeleteQuiz(ctx context.Context, id string) error {
	utils.LogDB("Deleting quiz %s", id)
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM questions WHERE quiz_id = ?"), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM attempts WHERE quiz_id = ?"), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, db.rebind("DELETE FROM quizzes WHERE id = ?"), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return quiz.NotFound("quiz %s not found", id)
		}
		return nil
	})
	if err != nil {
		utils.LogError("DeleteQuiz(%s) failed: %v (%v)", id, err, time.Since(start))
		return err
	}

	utils.LogDB("DeleteQuiz(%s) completed in %v", id, time.Since(start))
	return nil
}
