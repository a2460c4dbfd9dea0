package attempts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eqao-prep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// StartAttempt creates a fresh attempt for a user on a test. An existing
// unsubmitted attempt on the same test is returned instead of creating a
// second one.
func (s *Store) StartAttempt(ctx context.Context, userID, testID int64) (*models.Attempt, error) {
	var a models.Attempt
	err := s.db.QueryRowContext(ctx,
		`SELECT id, test_id, user_id, started_at, submitted_at, score
		 FROM attempts WHERE user_id = $1 AND test_id = $2 AND submitted_at IS NULL
		 ORDER BY started_at DESC LIMIT 1`,
		userID, testID,
	).Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score)
	if err == nil {
		return &a, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check open attempt: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO attempts (test_id, user_id) VALUES ($1, $2)
		 RETURNING id, test_id, user_id, started_at, submitted_at, score`,
		testID, userID,
	).Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score)
	if err != nil {
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}
	return &a, nil
}

func (s *Store) GetAttempt(ctx context.Context, id int64) (*models.Attempt, error) {
	var a models.Attempt
	err := s.db.QueryRowContext(ctx,
		`SELECT id, test_id, user_id, started_at, submitted_at, score FROM attempts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return &a, nil
}

// QuestionAnswers returns question id -> correct answer for a test.
func (s *Store) QuestionAnswers(ctx context.Context, testID int64) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, correct_answer FROM questions WHERE test_id = $1`, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	defer rows.Close()

	answers := make(map[int64]string)
	for rows.Next() {
		var id int64
		var answer string
		if err := rows.Scan(&id, &answer); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers[id] = answer
	}
	return answers, rows.Err()
}

// SubmitAttempt writes the graded responses, stamps the attempt as
// submitted, and records the score, all in one transaction.
func (s *Store) SubmitAttempt(ctx context.Context, attemptID int64, responses []models.Response, score int) (*models.Attempt, []models.Response, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saved := make([]models.Response, 0, len(responses))
	for _, resp := range responses {
		var r models.Response
		err = tx.QueryRowContext(ctx,
			`INSERT INTO responses (attempt_id, question_id, student_answer, is_correct)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, attempt_id, question_id, student_answer, is_correct`,
			attemptID, resp.QuestionID, resp.StudentAnswer, resp.IsCorrect,
		).Scan(&r.ID, &r.AttemptID, &r.QuestionID, &r.StudentAnswer, &r.IsCorrect)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert response: %w", err)
		}
		saved = append(saved, r)
	}

	var a models.Attempt
	err = tx.QueryRowContext(ctx,
		`UPDATE attempts SET submitted_at = $1, score = $2 WHERE id = $3
		 RETURNING id, test_id, user_id, started_at, submitted_at, score`,
		time.Now(), score, attemptID,
	).Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &a, saved, nil
}

func (s *Store) ListAttempts(ctx context.Context, userID int64) ([]models.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, test_id, user_id, started_at, submitted_at, score
		 FROM attempts WHERE user_id = $1 ORDER BY started_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		if err := rows.Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ListAllAttempts returns every attempt, newest first. Admin review only.
func (s *Store) ListAllAttempts(ctx context.Context) ([]models.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, test_id, user_id, started_at, submitted_at, score
		 FROM attempts ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		if err := rows.Scan(&a.ID, &a.TestID, &a.UserID, &a.StartedAt, &a.SubmittedAt, &a.Score); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *Store) GetResponses(ctx context.Context, attemptID int64) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.attempt_id, r.question_id, r.student_answer, r.is_correct
		 FROM responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE r.attempt_id = $1 ORDER BY q.question_number`,
		attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.ID, &r.AttemptID, &r.QuestionID, &r.StudentAnswer, &r.IsCorrect); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *Store) AddFeedback(ctx context.Context, attemptID, createdBy int64, text string) (*models.AdminFeedback, error) {
	var f models.AdminFeedback
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO admin_feedback (attempt_id, feedback_text, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, attempt_id, feedback_text, created_by, created_at`,
		attemptID, text, createdBy,
	).Scan(&f.ID, &f.AttemptID, &f.FeedbackText, &f.CreatedBy, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add feedback: %w", err)
	}
	return &f, nil
}

func (s *Store) GetFeedback(ctx context.Context, attemptID int64) ([]models.AdminFeedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attempt_id, feedback_text, created_by, created_at
		 FROM admin_feedback WHERE attempt_id = $1 ORDER BY created_at`,
		attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	defer rows.Close()

	var feedback []models.AdminFeedback
	for rows.Next() {
		var f models.AdminFeedback
		if err := rows.Scan(&f.ID, &f.AttemptID, &f.FeedbackText, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}
