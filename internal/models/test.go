package models

import "time"

// ── Core Structs ───────────────────────────────────────

type Test struct {
	ID                int64     `json:"id"`
	SourceQuestion    string    `json:"source_question"`
	SourceAnswer      string    `json:"source_answer"`
	SourceExplanation string    `json:"source_explanation,omitempty"`
	SourceImageURL    string    `json:"source_image_url,omitempty"`
	CreatedBy         int64     `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	QuestionCount     int       `json:"question_count,omitempty"`
}

type Question struct {
	ID               int64     `json:"id"`
	TestID           int64     `json:"test_id"`
	QuestionNumber   int       `json:"question_number"`
	QuestionText     string    `json:"question_text"`
	CorrectAnswer    string    `json:"correct_answer"`
	DifficultyLevel  int       `json:"difficulty_level"`
	DifficultyBand   string    `json:"difficulty_band"`
	Explanation      string    `json:"explanation,omitempty"`
	QuestionImageURL string    `json:"question_image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Attempt struct {
	ID          int64      `json:"id"`
	TestID      int64      `json:"test_id"`
	UserID      int64      `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Score       int        `json:"score"`
}

type Response struct {
	ID            int64  `json:"id"`
	AttemptID     int64  `json:"attempt_id"`
	QuestionID    int64  `json:"question_id"`
	StudentAnswer string `json:"student_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type AdminFeedback struct {
	ID           int64     `json:"id"`
	AttemptID    int64     `json:"attempt_id"`
	FeedbackText string    `json:"feedback_text"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────

type GenerateTestRequest struct {
	SourceQuestion string `json:"source_question"`
	SourceAnswer   string `json:"source_answer,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
	// SourceImage is an optional data URL of the source question image.
	SourceImage string `json:"source_image,omitempty"`
}

type StartAttemptRequest struct {
	TestID int64 `json:"test_id"`
}

type SubmitAttemptRequest struct {
	Answers []AttemptAnswer `json:"answers"`
}

type AttemptAnswer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

type FeedbackRequest struct {
	FeedbackText string `json:"feedback_text"`
}

// ── Response Types ────────────────────────────────────

type GenerateTestResponse struct {
	Test            Test              `json:"test"`
	Questions       []QuestionSummary `json:"questions"`
	DistinctAnswers int               `json:"distinct_answers"`
}

// QuestionSummary is what the generate endpoint returns per question —
// enough for the admin review screen without dumping the full text twice.
type QuestionSummary struct {
	ID              int64  `json:"id"`
	QuestionNumber  int    `json:"question_number"`
	DifficultyLevel int    `json:"difficulty_level"`
	DifficultyBand  string `json:"difficulty_band"`
	HasImage        bool   `json:"has_image"`
}

type TestListResponse struct {
	Tests []Test `json:"tests"`
	Total int    `json:"total"`
}

// CandidateQuestion strips the correct answer and explanation for serving.
type CandidateQuestion struct {
	ID               int64  `json:"id"`
	TestID           int64  `json:"test_id"`
	QuestionNumber   int    `json:"question_number"`
	QuestionText     string `json:"question_text"`
	DifficultyLevel  int    `json:"difficulty_level"`
	DifficultyBand   string `json:"difficulty_band"`
	QuestionImageURL string `json:"question_image_url,omitempty"`
}

type SubmitAttemptResponse struct {
	Attempt   Attempt    `json:"attempt"`
	Responses []Response `json:"responses"`
	Total     int        `json:"total"`
}

type AttemptDetail struct {
	Attempt   Attempt         `json:"attempt"`
	Responses []Response      `json:"responses"`
	Feedback  []AdminFeedback `json:"feedback"`
}
