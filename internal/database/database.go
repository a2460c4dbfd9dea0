package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens the Postgres pool using DATABASE_URL, or the individual
// DB_* variables when the URL is unset.
func Connect() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "eqao_prep"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("database connection established")
	return db, nil
}

// Migrate applies the schema. Every statement is idempotent, so running it
// on every startup is safe.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'CANDIDATE' CHECK (role IN ('ADMIN', 'CANDIDATE')),
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS tests (
			id BIGSERIAL PRIMARY KEY,
			source_question TEXT NOT NULL,
			source_answer TEXT NOT NULL,
			source_explanation TEXT NOT NULL DEFAULT '',
			source_image_url TEXT NOT NULL DEFAULT '',
			created_by BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			test_id BIGINT NOT NULL REFERENCES tests(id) ON DELETE CASCADE,
			question_number INT NOT NULL CHECK (question_number BETWEEN 1 AND 10),
			question_text TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			difficulty_level INT NOT NULL CHECK (difficulty_level BETWEEN 1 AND 10),
			difficulty_band TEXT NOT NULL CHECK (difficulty_band IN ('very_easy', 'medium', 'tough', 'more_tough')),
			explanation TEXT NOT NULL DEFAULT '',
			question_image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (test_id, question_number)
		)`,

		`CREATE TABLE IF NOT EXISTS attempts (
			id BIGSERIAL PRIMARY KEY,
			test_id BIGINT NOT NULL REFERENCES tests(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			submitted_at TIMESTAMPTZ,
			score INT NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS responses (
			id BIGSERIAL PRIMARY KEY,
			attempt_id BIGINT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			student_answer TEXT NOT NULL DEFAULT '',
			is_correct BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (attempt_id, question_id)
		)`,

		`CREATE TABLE IF NOT EXISTS admin_feedback (
			id BIGSERIAL PRIMARY KEY,
			attempt_id BIGINT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			feedback_text TEXT NOT NULL,
			created_by BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_questions_test_id ON questions(test_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_id ON attempts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_test_id ON attempts(test_id)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_attempt_id ON responses(attempt_id)`,
		`CREATE INDEX IF NOT EXISTS idx_admin_feedback_attempt_id ON admin_feedback(attempt_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("database migrations applied")
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
