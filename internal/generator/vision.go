package generator

import (
	"context"
	"fmt"
	"strings"
)

const visionExtractionPrompt = `Extract ALL text and mathematical content from this image of a math question.

Include:
- The complete question text
- All numbers, measurements, and labels
- Descriptions of any shapes, diagrams, graphs, or tables (with their measurements and labels)
- Any multiple choice options

Return the content as plain text. Describe visual elements in words, e.g. "A triangle inscribed in a semicircle with diameter 14 cm, base angle labeled 35 degrees, unknown angle labeled x".`

// ExtractSourceFromImage OCRs an uploaded question image into plain text
// that the classifier and prompt composer can work with. The extracted
// description is appended to (not substituted for) any typed question text.
func ExtractSourceFromImage(ctx context.Context, vision VisionClient, imageDataURL string) (string, error) {
	if vision == nil {
		return "", fmt.Errorf("no vision client configured")
	}

	text, err := vision.ExtractText(ctx, visionExtractionPrompt, imageDataURL)
	if err != nil {
		return "", fmt.Errorf("image text extraction: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("image text extraction returned no content")
	}
	return text, nil
}
