package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InvalidCountError reports a batch that did not contain exactly ten
// questions. The call is not retried: a malformed batch is terminal for
// the request.
type InvalidCountError struct {
	Got int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("expected 10 questions, got %d", e.Got)
}

// MalformedQuestionError reports a question missing a required field after
// cleanup.
type MalformedQuestionError struct {
	Number int
	Field  string
}

func (e *MalformedQuestionError) Error() string {
	return fmt.Sprintf("question %d: missing %s", e.Number, e.Field)
}

// rawQuestion tolerates the model's free-form field naming: either
// question_text or question, either correct_answer or answer. It collapses
// into the canonical shape at parse time.
type rawQuestion struct {
	QuestionNumber  int    `json:"question_number"`
	QuestionText    string `json:"question_text"`
	Question        string `json:"question"`
	CorrectAnswer   string `json:"correct_answer"`
	Answer          string `json:"answer"`
	DifficultyLevel int    `json:"difficulty_level"`
	Explanation     string `json:"explanation"`
}

func (q rawQuestion) text() string {
	if q.QuestionText != "" {
		return q.QuestionText
	}
	return q.Question
}

func (q rawQuestion) answer() string {
	if q.CorrectAnswer != "" {
		return q.CorrectAnswer
	}
	return q.Answer
}

type rawBatch struct {
	Questions []rawQuestion `json:"questions"`
}

// ParseResponse decodes the model's structured output. It accepts either a
// direct array of question objects or an object wrapping the array under
// "questions" (JSON mode typically returns the latter). Code fences are
// stripped first since models wrap JSON in markdown despite instructions.
func ParseResponse(responseBody string) ([]rawQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	var batch rawBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err == nil && batch.Questions != nil {
		return batch.Questions, nil
	}

	var direct []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &direct); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return direct, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
