package generator

import (
	"strings"
	"testing"
)

func TestSystemPromptForType_GeometryGuidance(t *testing.T) {
	prompt := SystemPromptForType(TypeGeometryWithDiagram, true)

	if !strings.Contains(prompt, "GEOMETRY WITH DIAGRAMS") {
		t.Error("expected geometry guidance in system prompt")
	}
	if !strings.Contains(prompt, "plain text") {
		t.Error("expected plain-text formatting rules in every system prompt")
	}
	if !strings.Contains(prompt, "Questions 1-2: VERY EASY") {
		t.Error("expected difficulty progression rules in system prompt")
	}
}

func TestSystemPromptForType_UnknownFallsBack(t *testing.T) {
	prompt := SystemPromptForType(QuestionType("something_else"), false)

	if !strings.Contains(prompt, "GENERAL MATHEMATICS") {
		t.Error("expected generic guidance for unknown type")
	}
}

func TestSystemPromptForType_NumberOperationsShared(t *testing.T) {
	// Fractions, exponents, and percentages share the same guidance block.
	for _, qt := range []QuestionType{TypeFractions, TypeExponents, TypePercentage, TypeNumberOperations} {
		prompt := SystemPromptForType(qt, false)
		if !strings.Contains(prompt, "NUMBER OPERATIONS") {
			t.Errorf("type %s: expected number operations guidance", qt)
		}
	}
}

func TestBuildUserPrompt_IncludesSourceAndAnalysis(t *testing.T) {
	src := SourceMaterial{
		Question:    "Evaluate (2/3)^2 and express your answer as a fraction.",
		Answer:      "4/9",
		Explanation: "Square the numerator and denominator.",
	}
	analysis := Classify(src.Question, false)

	prompt := BuildUserPrompt(src, analysis)

	if !strings.Contains(prompt, src.Question) {
		t.Error("expected source question in user prompt")
	}
	if !strings.Contains(prompt, "SOURCE ANSWER:\n4/9") {
		t.Error("expected source answer in user prompt")
	}
	if !strings.Contains(prompt, "SOURCE EXPLANATION:") {
		t.Error("expected source explanation in user prompt")
	}
	if !strings.Contains(prompt, "DETECTED QUESTION TYPE: FRACTIONS") {
		t.Error("expected detected type in user prompt")
	}
	if !strings.Contains(prompt, "exactly 10 questions") {
		t.Error("expected batch size requirement in user prompt")
	}
}

func TestBuildUserPrompt_ImageContext(t *testing.T) {
	src := SourceMaterial{
		Question:     "Find the angle x in the triangle shown.",
		ImageDataURL: "data:image/png;base64,abc123",
	}
	analysis := Classify(src.Question, true)

	prompt := BuildUserPrompt(src, analysis)

	if !strings.Contains(prompt, "includes an IMAGE/DIAGRAM") {
		t.Error("expected image context when a source image is present")
	}
	if analysis.Type == TypeGeometryWithDiagram && !strings.Contains(prompt, "QUESTION VARIETY REQUIREMENT") {
		t.Error("expected variety directive for geometry with diagram")
	}
}

func TestBuildUserPrompt_MissingAnswerNote(t *testing.T) {
	src := SourceMaterial{Question: "Solve 3x + 5 = 20 for x.", Answer: AnswerSentinel}
	analysis := Classify(src.Question, false)

	prompt := BuildUserPrompt(src, analysis)

	if !strings.Contains(prompt, "extracted from the source question") {
		t.Error("expected extraction note when no answer is provided")
	}
	if strings.Contains(prompt, "SOURCE ANSWER:") {
		t.Error("sentinel answer must not be presented as a source answer")
	}
}
