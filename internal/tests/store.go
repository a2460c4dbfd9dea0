package tests

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eqao-prep/backend/internal/generator"
	"github.com/eqao-prep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveGeneratedTest persists a test and its ten questions in one
// transaction. Either everything lands or nothing does.
func (s *Store) SaveGeneratedTest(ctx context.Context, createdBy int64, sourceImageURL string, result *generator.GenerationResult, explanation string) (*models.Test, []models.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var test models.Test
	err = tx.QueryRowContext(ctx,
		`INSERT INTO tests (source_question, source_answer, source_explanation, source_image_url, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, source_question, source_answer, source_explanation, source_image_url, created_by, created_at`,
		result.SourceQuestion, result.SourceAnswer, explanation, sourceImageURL, createdBy,
	).Scan(&test.ID, &test.SourceQuestion, &test.SourceAnswer, &test.SourceExplanation, &test.SourceImageURL, &test.CreatedBy, &test.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert test: %w", err)
	}

	questions := make([]models.Question, 0, len(result.Questions))
	for _, gq := range result.Questions {
		var q models.Question
		err = tx.QueryRowContext(ctx,
			`INSERT INTO questions (test_id, question_number, question_text, correct_answer, difficulty_level, difficulty_band, explanation, question_image_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, test_id, question_number, question_text, correct_answer, difficulty_level, difficulty_band, explanation, question_image_url, created_at`,
			test.ID, gq.QuestionNumber, gq.QuestionText, gq.CorrectAnswer, gq.DifficultyLevel,
			string(generator.BandForOrdinal(gq.QuestionNumber)), gq.Explanation, gq.QuestionImageURL,
		).Scan(&q.ID, &q.TestID, &q.QuestionNumber, &q.QuestionText, &q.CorrectAnswer, &q.DifficultyLevel, &q.DifficultyBand, &q.Explanation, &q.QuestionImageURL, &q.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert question %d: %w", gq.QuestionNumber, err)
		}
		questions = append(questions, q)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	test.QuestionCount = len(questions)
	return &test, questions, nil
}

func (s *Store) ListTests(ctx context.Context) ([]models.Test, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.source_question, t.source_answer, t.source_explanation, t.source_image_url, t.created_by, t.created_at,
		        (SELECT COUNT(*) FROM questions q WHERE q.test_id = t.id)
		 FROM tests t
		 ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	defer rows.Close()

	var tests []models.Test
	for rows.Next() {
		var t models.Test
		if err := rows.Scan(&t.ID, &t.SourceQuestion, &t.SourceAnswer, &t.SourceExplanation, &t.SourceImageURL, &t.CreatedBy, &t.CreatedAt, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (s *Store) GetTest(ctx context.Context, id int64) (*models.Test, error) {
	var t models.Test
	err := s.db.QueryRowContext(ctx,
		`SELECT t.id, t.source_question, t.source_answer, t.source_explanation, t.source_image_url, t.created_by, t.created_at,
		        (SELECT COUNT(*) FROM questions q WHERE q.test_id = t.id)
		 FROM tests t WHERE t.id = $1`,
		id,
	).Scan(&t.ID, &t.SourceQuestion, &t.SourceAnswer, &t.SourceExplanation, &t.SourceImageURL, &t.CreatedBy, &t.CreatedAt, &t.QuestionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return &t, nil
}

// GetQuestions returns a test's questions ordered by number, answers and
// explanations included. Candidate-facing handlers strip those fields.
func (s *Store) GetQuestions(ctx context.Context, testID int64) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, test_id, question_number, question_text, correct_answer, difficulty_level, difficulty_band, explanation, question_image_url, created_at
		 FROM questions WHERE test_id = $1 ORDER BY question_number`,
		testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.QuestionNumber, &q.QuestionText, &q.CorrectAnswer, &q.DifficultyLevel, &q.DifficultyBand, &q.Explanation, &q.QuestionImageURL, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteTest removes a test; questions, attempts, and responses cascade.
func (s *Store) DeleteTest(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete test: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
