package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/adamspd/QuizTrack/utils"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type DB struct {
	*sql.DB
	driver string
}

// InitDB opens the database for driver ("sqlite3" or "postgres") and creates
// the schema if needed.
func InitDB(driver, dsn string) (*DB, error) {
	utils.LogStartup("Initializing %s database at: %s", driver, redactDSN(dsn))

	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}
	if driver == DriverSQLite {
		// One writer at a time; avoids "database is locked" under concurrent submits.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		conn.Close()
		return nil, err
	}

	utils.LogStartup("Database connection established")

	db := &DB{DB: conn, driver: driver}
	if err := db.createTables(context.Background()); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		conn.Close()
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return db, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) createTables(ctx context.Context) error {
	ts := "DATETIME"
	if db.driver == DriverPostgres {
		ts = "TIMESTAMPTZ"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('admin', 'student')),
			rank TEXT NOT NULL DEFAULT '-',
			created_at ` + ts + ` NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL CHECK (level IN ('Easy', 'Medium', 'Hard')),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at ` + ts + ` NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_option TEXT NOT NULL CHECK (correct_option IN ('A', 'B', 'C', 'D')),
			created_at ` + ts + ` NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		)`,

		// Question snapshot taken when a student starts a quiz
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			questions_json TEXT NOT NULL,
			started_at ` + ts + ` NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Results outlive their quiz so history keeps the score
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			attempt_id TEXT UNIQUE,
			score INTEGER NOT NULL CHECK (score >= 0),
			total_questions INTEGER NOT NULL CHECK (total_questions > 0),
			percentage DOUBLE PRECISION NOT NULL,
			created_at ` + ts + ` NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_questions_quiz_id ON questions(quiz_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_results_user_id ON results(user_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_results_quiz_id ON results(quiz_id)",
		"CREATE INDEX IF NOT EXISTS idx_attempts_user_id ON attempts(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_quizzes_active ON quizzes(active, created_at)",
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.QueryRowContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.rebind(query), args...)
}

// withTx runs fn in a transaction, rolling back on error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			utils.LogError("Rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
