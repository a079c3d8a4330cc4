package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

const userColumns = "id, name, email, phone, role, rank, created_at"

func scanUser(row interface{ Scan(...interface{}) error }, user *models.User, extra ...interface{}) error {
	dest := []interface{}{&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role, &user.Rank, &user.CreatedAt}
	return row.Scan(append(dest, extra...)...)
}

// CreateUser inserts a user with an already hashed password. Emails are
// compared case-insensitively.
func (db *DB) CreateUser(ctx context.Context, user *models.User, passwordHash string) error {
	utils.LogDB("Creating user: %s (%s)", user.Name, user.Email)
	start := time.Now()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Rank == "" {
		user.Rank = quiz.NoRank
	}

	var exists int
	err := db.queryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", user.Email).Scan(&exists)
	if err != nil {
		utils.LogError("CreateUser email check failed: %v", err)
		return err
	}
	if exists > 0 {
		utils.LogDB("CreateUser: email %s already registered", user.Email)
		return quiz.Validation("email already registered", map[string]string{"email": "is already registered"})
	}

	_, err = db.exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, rank, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, user.Phone, passwordHash, user.Role, user.Rank, user.CreatedAt)
	if err != nil {
		utils.LogError("CreateUser failed: %v (%v)", err, time.Since(start))
		return err
	}

	utils.LogDB("User created with ID %s in %v", user.ID, time.Since(start))
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	utils.LogDB("Getting user by ID: %s", id)

	var user models.User
	err := scanUser(db.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id), &user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("User ID %s not found", id)
			return nil, quiz.NotFound("user %s not found", id)
		}
		utils.LogError("GetUserByID(%s) failed: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// GetUserWithHash loads a user by email together with the stored password
// hash, for login.
func (db *DB) GetUserWithHash(ctx context.Context, email string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	utils.LogDB("Getting user by email: %s", email)

	var user models.User
	var passwordHash string
	err := scanUser(db.queryRow(ctx, "SELECT "+userColumns+", password_hash FROM users WHERE email = ?", email), &user, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("User with email %s not found", email)
			return nil, "", quiz.NotFound("user %s not found", email)
		}
		utils.LogError("GetUserWithHash(%s) failed: %v", email, err)
		return nil, "", err
	}
	return &user, passwordHash, nil
}

// ListStudents returns students newest first.
func (db *DB) ListStudents(ctx context.Context) ([]models.User, error) {
	utils.LogDB("Listing students")
	start := time.Now()

	rows, err := db.query(ctx, "SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY created_at DESC, id", models.RoleStudent)
	if err != nil {
		utils.LogError("ListStudents failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			utils.LogError("Failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("ListStudents returned %d rows in %v", len(users), time.Since(start))
	return users, nil
}

// DeleteUser removes a user along with their attempts and results.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	utils.LogDB("Deleting user ID %s", id)
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM results WHERE user_id = ?"), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM attempts WHERE user_id = ?"), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, db.rebind("DELETE FROM users WHERE id = ?"), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return quiz.NotFound("user %s not found", id)
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to delete user %s: %v (%v)", id, err, time.Since(start))
		return err
	}

	utils.LogDB("DeleteUser(%s) completed in %v", id, time.Since(start))
	return nil
}

// ListStudentTotals returns attempt counts and percentage sums per student.
func (db *DB) ListStudentTotals(ctx context.Context) ([]models.StudentTotals, error) {
	utils.LogDB("Calculating student totals")
	start := time.Now()

	rows, err := db.query(ctx, `
		SELECT u.id, u.created_at, COUNT(r.id), COALESCE(SUM(r.percentage), 0.0)
		FROM users u
		LEFT JOIN results r ON r.user_id = u.id
		WHERE u.role = ?
		GROUP BY u.id, u.created_at
	`, models.RoleStudent)
	if err != nil {
		utils.LogError("ListStudentTotals failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var totals []models.StudentTotals
	for rows.Next() {
		var t models.StudentTotals
		if err := rows.Scan(&t.UserID, &t.SignedUpAt, &t.Attempts, &t.PercentageSum); err != nil {
			utils.LogError("Failed to scan student totals: %v", err)
			return nil, err
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("ListStudentTotals returned %d rows in %v", len(totals), time.Since(start))
	return totals, nil
}

// UpdateRanks writes all ranks in one transaction.
func (db *DB) UpdateRanks(ctx context.Context, ranks map[string]string) error {
	utils.LogDB("Updating %d ranks", len(ranks))
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, db.rebind("UPDATE users SET rank = ? WHERE id = ?"))
		if err != nil {
			return err
		}
		defer stmt.Close()
		for userID, rank := range ranks {
			if _, err := stmt.ExecContext(ctx, rank, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.LogError("UpdateRanks failed: %v (%v)", err, time.Since(start))
		return err
	}

	utils.LogDB("UpdateRanks completed in %v", time.Since(start))
	return nil
}

// CountAdmins is used by the startup bootstrap.
func (db *DB) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := db.queryRow(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", models.RoleAdmin).Scan(&n); err != nil {
		utils.LogError("CountAdmins failed: %v", err)
		return 0, err
	}
	return n, nil
}
