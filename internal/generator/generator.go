package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	// QuestionsPerTest is the fixed batch size. A response with any other
	// count is rejected outright.
	QuestionsPerTest = 10

	minSourceLength = 10
	maxSourceLength = 10000
	maxAnswerLength = 500
)

// ValidationError reports admin input that fails pre-generation checks.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// GenerationResult is the full output of one pipeline run.
type GenerationResult struct {
	Questions       []GeneratedQuestion
	Analysis        QuestionTypeAnalysis
	DistinctAnswers int
	SourceQuestion  string
	SourceAnswer    string
	PromptTokens    int
	OutputTokens    int
}

// Pipeline runs the full generation flow: optional vision extraction,
// classification, prompt composition, LLM call, parsing and cleanup, and
// concurrent diagram synthesis.
type Pipeline struct {
	llm      LLMClient
	vision   VisionClient
	diagrams *DiagramSynthesizer
}

// NewPipeline wires a pipeline from explicit clients. vision and diagrams
// may be nil; the corresponding stages are skipped.
func NewPipeline(llm LLMClient, vision VisionClient, diagrams *DiagramSynthesizer) *Pipeline {
	return &Pipeline{llm: llm, vision: vision, diagrams: diagrams}
}

// NewPipelineFromEnv builds the production pipeline. Text generation
// follows LLM_PROVIDER; vision and diagram synthesis always use OpenAI
// since the alternate provider renders no images.
func NewPipelineFromEnv() *Pipeline {
	llm := NewLLMClientFromEnv()

	var vision VisionClient
	var images ImageClient
	if oc, ok := llm.(*OpenAIClient); ok {
		vision, images = oc, oc
	} else if key := getEnv("OPENAI_API_KEY", ""); key != "" {
		oc := NewOpenAIClient(key)
		vision, images = oc, oc
	} else if mc, ok := llm.(*MockClient); ok {
		vision, images = mc, mc
	}

	var diagrams *DiagramSynthesizer
	if images != nil {
		diagrams = NewDiagramSynthesizer(images)
	}
	return NewPipeline(llm, vision, diagrams)
}

// Generate runs one complete generation and returns exactly ten questions
// or an error. Diagram failures degrade to questions without images; every
// other stage failure aborts the run.
func (p *Pipeline) Generate(ctx context.Context, src SourceMaterial) (*GenerationResult, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}

	// An uploaded image supplements the typed text: its extracted content
	// is appended so measurements visible only in the figure reach the
	// classifier and the prompts. When the image is the only source, a
	// failed or near-empty extraction leaves nothing to generate from.
	if src.ImageDataURL != "" {
		typed := strings.TrimSpace(src.Question)
		if p.vision == nil {
			if typed == "" {
				return nil, &ValidationError{Errors: []string{"source image provided but no vision backend is configured"}}
			}
		} else {
			extracted, err := ExtractSourceFromImage(ctx, p.vision, src.ImageDataURL)
			switch {
			case err != nil && typed == "":
				return nil, &ValidationError{Errors: []string{"could not read the source question from the image"}}
			case err != nil:
				log.Printf("WARN: continuing without image content: %v", err)
			default:
				src.Question = strings.TrimSpace(typed + "\n\n[From the uploaded image]\n" + extracted)
			}
		}
		if len(strings.TrimSpace(src.Question)) < minSourceLength {
			return nil, &ValidationError{Errors: []string{fmt.Sprintf("source question must be at least %d characters after image extraction", minSourceLength)}}
		}
	}

	src.Answer = ExtractAnswer(src.Question, src.Answer)

	analysis := Classify(src.Question, src.ImageDataURL != "")
	log.Printf("classified source as %s (concept: %s, visual: %t)", analysis.Type, analysis.Concept, analysis.HasVisual)

	systemPrompt := SystemPromptForType(analysis.Type, analysis.HasVisual)
	userPrompt := BuildUserPrompt(src, analysis)

	resp, err := p.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("question generation: %w", err)
	}

	raw, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, err
	}
	if len(raw) != QuestionsPerTest {
		return nil, &InvalidCountError{Got: len(raw)}
	}

	questions := make([]GeneratedQuestion, QuestionsPerTest)
	for i, rq := range raw {
		number := i + 1

		text := CleanMathText(rq.text())
		if text == "" {
			return nil, &MalformedQuestionError{Number: number, Field: "question_text"}
		}
		answer := CleanMathText(rq.answer())
		if answer == "" {
			return nil, &MalformedQuestionError{Number: number, Field: "correct_answer"}
		}

		questions[i] = GeneratedQuestion{
			QuestionNumber:  number,
			QuestionText:    text,
			CorrectAnswer:   answer,
			DifficultyLevel: number,
			Explanation:     CleanMathText(rq.Explanation),
		}
	}

	p.synthesizeDiagrams(ctx, questions, analysis)

	distinct := warnOnLowDiversity(questions)

	return &GenerationResult{
		Questions:       questions,
		Analysis:        analysis,
		DistinctAnswers: distinct,
		SourceQuestion:  src.Question,
		SourceAnswer:    src.Answer,
		PromptTokens:    resp.PromptTokens,
		OutputTokens:    resp.OutputTokens,
	}, nil
}

// synthesizeDiagrams renders diagrams for the questions that need them,
// one goroutine per question. Each goroutine writes only its own slot, so
// no locking is needed. Timeouts are enforced per call inside Synthesize.
func (p *Pipeline) synthesizeDiagrams(ctx context.Context, questions []GeneratedQuestion, analysis QuestionTypeAnalysis) {
	if p.diagrams == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range questions {
		if !NeedsDiagram(questions[i].QuestionNumber, questions[i].QuestionText, analysis) {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			questions[i].QuestionImageURL = p.diagrams.Synthesize(ctx, questions[i].QuestionNumber, questions[i].QuestionText, analysis.Concept)
		}(i)
	}
	wg.Wait()
}

func validateSource(src SourceMaterial) error {
	var errs []string

	q := strings.TrimSpace(src.Question)
	if q == "" && src.ImageDataURL == "" {
		errs = append(errs, "source question or source image is required")
	}
	if q != "" {
		if len(q) < minSourceLength {
			errs = append(errs, fmt.Sprintf("source question must be at least %d characters", minSourceLength))
		}
		if len(q) > maxSourceLength {
			errs = append(errs, fmt.Sprintf("source question must be at most %d characters", maxSourceLength))
		}
	}
	if len(src.Answer) > maxAnswerLength {
		errs = append(errs, fmt.Sprintf("source answer must be at most %d characters", maxAnswerLength))
	}
	if src.ImageDataURL != "" && !strings.HasPrefix(src.ImageDataURL, "data:image/") {
		errs = append(errs, "source image must be an image data URL")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
