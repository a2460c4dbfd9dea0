package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	imageGenTimeout = 25 * time.Second
	downloadTimeout = 15 * time.Second
	maxDiagramBytes = 10 << 20
)

var (
	geometryShapeRe = regexp.MustCompile(`(?i)(semicircle|triangle|circle|angle|diameter|radius|inscribed)`)
	diameterRe      = regexp.MustCompile(`(?i)diameter\s+(?:of\s+)?(\d+(?:\.\d+)?)\s*(cm|m|meters?|units?|feet?)`)
	radiusRe        = regexp.MustCompile(`(?i)radius\s+(?:of\s+)?(\d+(?:\.\d+)?)\s*(cm|m|meters?|units?|feet?)`)
	angleRe         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*degrees?`)
	baseAngleRe     = regexp.MustCompile(`(?i)base\s+angle`)
	angleXRe        = regexp.MustCompile(`(?i)angle\s+x`)
)

// DiagramSynthesizer renders per-question geometry diagrams and inlines
// them as data URLs. Failures never propagate: a question without a
// diagram is still a valid question.
type DiagramSynthesizer struct {
	images     ImageClient
	httpClient *http.Client
}

func NewDiagramSynthesizer(images ImageClient) *DiagramSynthesizer {
	return &DiagramSynthesizer{
		images:     images,
		httpClient: &http.Client{Timeout: downloadTimeout},
	}
}

// NeedsDiagram reports whether a generated question warrants its own
// diagram. Later questions are word problems where a rendered figure adds
// little, so shape-keyword matches only trigger rendering through question 7.
func NeedsDiagram(questionNumber int, questionText string, analysis QuestionTypeAnalysis) bool {
	if analysis.Type == TypeGeometryWithDiagram || analysis.HasVisual {
		return true
	}
	return geometryShapeRe.MatchString(questionText) && questionNumber <= 7
}

// BuildDiagramPrompt composes the rendering prompt, embedding the exact
// measurements extracted from the question text so the figure matches the
// numbers the student must work with.
func BuildDiagramPrompt(questionText, concept string) string {
	var sb strings.Builder

	sb.WriteString("A clean, precise mathematical diagram for a Grade 9 geometry question. ")
	sb.WriteString("Black lines on white background, textbook style, clearly labeled measurements. ")

	lower := strings.ToLower(questionText)
	if strings.Contains(lower, "semicircle") {
		sb.WriteString("A semicircle with a triangle inscribed in it, the triangle's longest side lying along the diameter. ")
	} else if strings.Contains(lower, "triangle") {
		sb.WriteString("A triangle with labeled vertices. ")
	} else if strings.Contains(lower, "circle") {
		sb.WriteString("A circle with its center marked. ")
	}

	if m := diameterRe.FindStringSubmatch(questionText); m != nil {
		fmt.Fprintf(&sb, "The diameter is labeled %s %s. ", m[1], m[2])
	} else if m := radiusRe.FindStringSubmatch(questionText); m != nil {
		if r, err := strconv.ParseFloat(m[1], 64); err == nil {
			fmt.Fprintf(&sb, "The radius is labeled %s %s (diameter %s %s). ", m[1], m[2], formatMeasure(r*2), m[2])
		}
	}

	angles := extractAngles(questionText)
	for _, a := range angles {
		fmt.Fprintf(&sb, "One angle is labeled %s°. ", a)
	}
	if baseAngleRe.MatchString(questionText) && len(angles) > 0 {
		fmt.Fprintf(&sb, "The %s° angle is a base angle at the diameter. ", angles[0])
	}
	if angleXRe.MatchString(questionText) {
		sb.WriteString("The unknown angle is labeled x. ")
	}

	if concept != "" {
		fmt.Fprintf(&sb, "The diagram illustrates: %s. ", concept)
	}
	sb.WriteString("No question text in the image, only the figure and its measurement labels.")

	return sb.String()
}

// extractAngles returns the deduplicated plausible angle values in the
// text. Values outside (0, 180] are measurement noise, not angles.
func extractAngles(text string) []string {
	var angles []string
	seen := make(map[string]bool)
	for _, m := range angleRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 || v > 180 {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			angles = append(angles, m[1])
		}
	}
	return angles
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Synthesize renders a diagram for one question and returns it as a data
// URL. Any failure (no image client, generation timeout, download error)
// returns "" after logging; the caller stores the question without an image.
func (d *DiagramSynthesizer) Synthesize(ctx context.Context, questionNumber int, questionText, concept string) string {
	if d == nil || d.images == nil {
		return ""
	}

	prompt := BuildDiagramPrompt(questionText, concept)

	genCtx, cancel := context.WithTimeout(ctx, imageGenTimeout)
	defer cancel()
	url, err := d.images.GenerateImage(genCtx, prompt)
	if err != nil {
		log.Printf("WARN: diagram generation failed for question %d: %v", questionNumber, err)
		return ""
	}

	dataURL, err := d.download(ctx, url)
	if err != nil {
		log.Printf("WARN: diagram download failed for question %d: %v", questionNumber, err)
		return ""
	}
	return dataURL
}

// download fetches the hosted image and converts it to a base64 data URL.
// Hosted URLs from the image API expire within hours, so the bytes are
// inlined before persistence.
func (d *DiagramSynthesizer) download(ctx context.Context, url string) (string, error) {
	dlCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDiagramBytes))
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
