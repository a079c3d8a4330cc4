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

const questionColumns = "id, quiz_id, question_text, option_a, option_b, option_c, option_d, correct_option, created_at"

func scanQuestion(row interface{ Scan(...interface{}) error }, q *models.Question) error {
	return row.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectOption, &q.CreatedAt)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertQuestion(ctx context.Context, db *DB, ex execer, q *models.Question) error {
	_, err := ex.ExecContext(ctx, db.rebind(`
		INSERT INTO questions (`+questionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), q.ID, q.QuizID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.CreatedAt)
	return err
}

// GetQuestions returns a quiz's questions in creation order.
func (db *DB) GetQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	utils.LogDB("Getting questions for quiz %s", quizID)
	start := time.Now()

	rows, err := db.query(ctx, "SELECT "+questionColumns+" FROM questions WHERE quiz_id = ? ORDER BY created_at ASC, id ASC", quizID)
	if err != nil {
		utils.LogError("GetQuestions query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := scanQuestion(rows, &q); err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("GetQuestions completed: %d questions in %v", len(questions), time.Since(start))
	return questions, nil
}

func (db *DB) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	utils.LogDB("Executing query: GetQuestion(%s)", id)

	var q models.Question
	err := scanQuestion(db.queryRow(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = ?", id), &q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Question %s not found", id)
			return nil, quiz.NotFound("question %s not found", id)
		}
		utils.LogError("GetQuestion(%s) failed: %v", id, err)
		return nil, err
	}
	return &q, nil
}

func (db *DB) CreateQuestion(ctx context.Context, q *models.Question) error {
	utils.LogDB("Creating question for quiz %s", q.QuizID)
	start := time.Now()

	if err := insertQuestion(ctx, db, db, q); err != nil {
		utils.LogError("CreateQuestion failed: %v (%v)", err, time.Since(start))
		return err
	}

	utils.LogDB("Question created with ID %s in %v", q.ID, time.Since(start))
	return nil
}

func (db *DB) UpdateQuestion(ctx context.Context, q *models.Question) error {
	utils.LogDB("Updating question %s", q.ID)
	start := time.Now()

	res, err := db.exec(ctx, `
		UPDATE questions
		SET question_text = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_option = ?
		WHERE id = ?
	`, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.ID)
	if err != nil {
		utils.LogError("UpdateQuestion(%s) failed: %v (%v)", q.ID, err, time.Since(start))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return quiz.NotFound("question %s not found", q.ID)
	}

	utils.LogDB("UpdateQuestion(%s) completed in %v", q.ID, time.Since(start))
	return nil
}

func (db *DB) DeleteQuestion(ctx context.Context, id string) error {
	utils.LogDB("Deleting question %s", id)
	start := time.Now()

	res, err := db.exec(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		utils.LogError("DeleteQuestion(%s) failed: %v (%v)", id, err, time.Since(start))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return quiz.NotFound("question %s not found", id)
	}

	utils.LogDB("DeleteQuestion(%s) completed in %v", id, time.Since(start))
	return nil
}
