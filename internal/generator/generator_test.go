package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func batchResponse(count int, textFor func(i int) string) *LLMResponse {
	questions := make([]map[string]interface{}, count)
	for i := 0; i < count; i++ {
		questions[i] = map[string]interface{}{
			"question_number":  i + 1,
			"question_text":    textFor(i),
			"correct_answer":   fmt.Sprintf("%d", i+1),
			"difficulty_level": 5, // deliberately wrong, must be overridden
			"explanation":      "Work through the steps.",
		}
	}
	data, _ := json.Marshal(map[string]interface{}{"questions": questions})
	return &LLMResponse{Content: string(data), PromptTokens: 100, OutputTokens: 200}
}

func plainText(i int) string {
	return fmt.Sprintf("What is %d + %d?", i+1, i+2)
}

func TestPipelineGenerate_FullBatch(t *testing.T) {
	mock := NewMockClient()
	p := NewPipeline(mock, nil, nil)

	result, err := p.Generate(context.Background(), SourceMaterial{
		Question: "What is 2/5 + 1/5? Answer: 3/5",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(result.Questions) != QuestionsPerTest {
		t.Fatalf("expected %d questions, got %d", QuestionsPerTest, len(result.Questions))
	}
	for i, q := range result.Questions {
		if q.QuestionNumber != i+1 {
			t.Errorf("question %d: number %d out of order", i, q.QuestionNumber)
		}
		if q.DifficultyLevel != q.QuestionNumber {
			t.Errorf("question %d: difficulty %d must equal its position", q.QuestionNumber, q.DifficultyLevel)
		}
		if q.QuestionText == "" || q.CorrectAnswer == "" {
			t.Errorf("question %d: missing text or answer", q.QuestionNumber)
		}
	}
	if result.DistinctAnswers < minDistinctAnswers {
		t.Errorf("mock batch should be diverse, got %d distinct answers", result.DistinctAnswers)
	}
}

func TestPipelineGenerate_DifficultyForcedToOrdinal(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, plainText), nil
	}
	p := NewPipeline(mock, nil, nil)

	result, err := p.Generate(context.Background(), SourceMaterial{Question: "What is 12 + 30?"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The model reported difficulty 5 for everything; the position wins.
	for _, q := range result.Questions {
		if q.DifficultyLevel != q.QuestionNumber {
			t.Errorf("question %d: expected difficulty %d, got %d", q.QuestionNumber, q.QuestionNumber, q.DifficultyLevel)
		}
	}
}

func TestPipelineGenerate_WrongCountRejected(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(9, plainText), nil
	}
	p := NewPipeline(mock, nil, nil)

	_, err := p.Generate(context.Background(), SourceMaterial{Question: "What is 12 + 30?"})

	var countErr *InvalidCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("expected InvalidCountError, got: %v", err)
	}
	if countErr.Got != 9 {
		t.Errorf("expected Got=9, got %d", countErr.Got)
	}
}

func TestPipelineGenerate_IdenticalAnswersStillSucceed(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		questions := make([]map[string]interface{}, 10)
		for i := range questions {
			questions[i] = map[string]interface{}{
				"question_number": i + 1,
				"question_text":   plainText(i),
				"correct_answer":  "42",
			}
		}
		data, _ := json.Marshal(map[string]interface{}{"questions": questions})
		return &LLMResponse{Content: string(data)}, nil
	}
	p := NewPipeline(mock, nil, nil)

	result, err := p.Generate(context.Background(), SourceMaterial{Question: "What is 12 + 30?"})
	if err != nil {
		t.Fatalf("low diversity must not fail generation, got: %v", err)
	}
	if result.DistinctAnswers != 1 {
		t.Errorf("expected 1 distinct answer, got %d", result.DistinctAnswers)
	}
	if len(result.Questions) != 10 {
		t.Errorf("expected the full batch back, got %d questions", len(result.Questions))
	}
}

func TestPipelineGenerate_MissingTextRejected(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, func(i int) string {
			if i == 3 {
				return ""
			}
			return plainText(i)
		}), nil
	}
	p := NewPipeline(mock, nil, nil)

	_, err := p.Generate(context.Background(), SourceMaterial{Question: "What is 12 + 30?"})

	var malformed *MalformedQuestionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedQuestionError, got: %v", err)
	}
	if malformed.Number != 4 || malformed.Field != "question_text" {
		t.Errorf("unexpected error detail: %v", malformed)
	}
}

func TestPipelineGenerate_ValidatesSourceLength(t *testing.T) {
	p := NewPipeline(NewMockClient(), nil, nil)

	_, err := p.Generate(context.Background(), SourceMaterial{Question: "2+2?"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for short question, got: %v", err)
	}

	_, err = p.Generate(context.Background(), SourceMaterial{Question: strings.Repeat("x", 10001)})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for oversized question, got: %v", err)
	}

	_, err = p.Generate(context.Background(), SourceMaterial{})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for empty source, got: %v", err)
	}

	_, err = p.Generate(context.Background(), SourceMaterial{
		Question: "What is 12 + 30?",
		Answer:   strings.Repeat("x", 501),
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for oversized answer, got: %v", err)
	}
}

func TestPipelineGenerate_ImageOnlySourceNeedsOCR(t *testing.T) {
	mock := NewMockClient()
	mock.ExtractFunc = func(ctx context.Context, prompt, imageDataURL string) (string, error) {
		return "", fmt.Errorf("vision unavailable")
	}
	p := NewPipeline(mock, mock, nil)

	_, err := p.Generate(context.Background(), SourceMaterial{
		ImageDataURL: "data:image/png;base64,abc123",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError when the only source is an unreadable image, got: %v", err)
	}
}

func TestPipelineGenerate_ImageOnlySourceSucceedsViaOCR(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, plainText), nil
	}
	p := NewPipeline(mock, mock, nil)

	result, err := p.Generate(context.Background(), SourceMaterial{
		ImageDataURL: "data:image/png;base64,abc123",
	})
	if err != nil {
		t.Fatalf("expected OCR to supply the source, got: %v", err)
	}
	if len(result.Questions) != 10 {
		t.Errorf("expected 10 questions, got %d", len(result.Questions))
	}
}

func TestPipelineGenerate_GeometryDiagramsAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer server.Close()

	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, func(i int) string {
			return fmt.Sprintf("A triangle inscribed in a semicircle has one angle of %d degrees. Find angle x.", 20+i)
		}), nil
	}
	mock.ImageFunc = func(ctx context.Context, prompt string) (string, error) {
		return server.URL, nil
	}

	p := NewPipeline(mock, nil, NewDiagramSynthesizer(mock))

	result, err := p.Generate(context.Background(), SourceMaterial{
		Question: "In the diagram shown, a triangle is inscribed in a semicircle with diameter 14 cm. One base angle measures 35 degrees. Find angle x.",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Analysis.Type != TypeGeometryWithDiagram {
		t.Fatalf("expected geometry classification, got %s", result.Analysis.Type)
	}

	for _, q := range result.Questions {
		if !strings.HasPrefix(q.QuestionImageURL, "data:image/png;base64,") {
			t.Errorf("question %d: expected inlined diagram, got %q", q.QuestionNumber, q.QuestionImageURL)
		}
	}
	if mock.ImageCalls != 10 {
		t.Errorf("expected 10 image calls, got %d", mock.ImageCalls)
	}
}

func TestPipelineGenerate_DiagramFailureDoesNotFailBatch(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, func(i int) string {
			return fmt.Sprintf("A triangle has an angle of %d degrees. Find the third angle.", 20+i)
		}), nil
	}
	mock.ImageFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("image service down")
	}

	p := NewPipeline(mock, nil, NewDiagramSynthesizer(mock))

	result, err := p.Generate(context.Background(), SourceMaterial{
		Question: "In the diagram shown, a triangle has two angles of 35 degrees and 90 degrees. Find the third angle.",
	})
	if err != nil {
		t.Fatalf("diagram failures must not fail the batch, got: %v", err)
	}
	for _, q := range result.Questions {
		if q.QuestionImageURL != "" {
			t.Errorf("question %d: expected no diagram after failures, got %q", q.QuestionNumber, q.QuestionImageURL)
		}
	}
}

func TestPipelineGenerate_VisionSupplementsSource(t *testing.T) {
	mock := NewMockClient()
	var capturedPrompt string
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		capturedPrompt = userPrompt
		return batchResponse(10, plainText), nil
	}
	mock.ExtractFunc = func(ctx context.Context, prompt, imageDataURL string) (string, error) {
		return "A rectangle with width 4 cm and length 9 cm. Find the area.", nil
	}

	p := NewPipeline(mock, mock, nil)

	_, err := p.Generate(context.Background(), SourceMaterial{
		Question:     "Use the figure to find the area.",
		ImageDataURL: "data:image/png;base64,abc123",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(capturedPrompt, "width 4 cm") {
		t.Error("expected extracted image content in the user prompt")
	}
	if !strings.Contains(capturedPrompt, "Use the figure to find the area.") {
		t.Error("expected the typed question text to be kept")
	}
}

func TestPipelineGenerate_CleansModelLatex(t *testing.T) {
	mock := NewMockClient()
	mock.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
		return batchResponse(10, func(i int) string {
			return `Evaluate \frac{2}{3} of 45^\circ.`
		}), nil
	}
	p := NewPipeline(mock, nil, nil)

	result, err := p.Generate(context.Background(), SourceMaterial{Question: "Evaluate two thirds of an angle."})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := "Evaluate (2)/(3) of 45 degrees."
	if result.Questions[0].QuestionText != want {
		t.Errorf("expected cleaned text %q, got %q", want, result.Questions[0].QuestionText)
	}
}
