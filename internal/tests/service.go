package tests

import (
	"context"
	"fmt"
	"log"

	"github.com/eqao-prep/backend/internal/generator"
	"github.com/eqao-prep/backend/internal/models"
)

type Service struct {
	store    *Store
	pipeline *generator.Pipeline
}

func NewService(store *Store, pipeline *generator.Pipeline) *Service {
	return &Service{store: store, pipeline: pipeline}
}

// GenerateTest runs the generation pipeline on the admin's source material
// and persists the result. The returned summary includes the distinct
// answer count so the admin can judge batch quality before publishing.
func (s *Service) GenerateTest(ctx context.Context, createdBy int64, req models.GenerateTestRequest) (*models.GenerateTestResponse, error) {
	result, err := s.pipeline.Generate(ctx, generator.SourceMaterial{
		Question:     req.SourceQuestion,
		Answer:       req.SourceAnswer,
		Explanation:  req.Explanation,
		ImageDataURL: req.SourceImage,
	})
	if err != nil {
		return nil, err
	}

	test, questions, err := s.store.SaveGeneratedTest(ctx, createdBy, req.SourceImage, result, req.Explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to save generated test: %w", err)
	}

	log.Printf("generated test %d: %d questions, %d distinct answers, %d prompt tokens, %d output tokens",
		test.ID, len(questions), result.DistinctAnswers, result.PromptTokens, result.OutputTokens)

	summaries := make([]models.QuestionSummary, len(questions))
	for i, q := range questions {
		summaries[i] = models.QuestionSummary{
			ID:              q.ID,
			QuestionNumber:  q.QuestionNumber,
			DifficultyLevel: q.DifficultyLevel,
			DifficultyBand:  q.DifficultyBand,
			HasImage:        q.QuestionImageURL != "",
		}
	}

	return &models.GenerateTestResponse{
		Test:            *test,
		Questions:       summaries,
		DistinctAnswers: result.DistinctAnswers,
	}, nil
}
