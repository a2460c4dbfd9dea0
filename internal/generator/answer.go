package generator

import (
	"regexp"
	"strings"
)

// AnswerSentinel is stored when no answer can be extracted from the source
// question. The tests table requires a non-null answer, so the fallback is
// a pointer at the question text rather than an empty string.
const AnswerSentinel = "See question text"

// Extraction strategies tried in order. The first match wins.
var answerPatterns = []*regexp.Regexp{
	// "answer: 42", "correct answer: 3.5", "solution: B"
	regexp.MustCompile(`(?i)(?:answer|correct answer|solution)[:\s]+([A-Z0-9]+(?:\.[0-9]+)?)`),
	// multiple-choice letter: "A) ... B) ... Answer: B"
	regexp.MustCompile(`(?i)(?:answer|correct|solution)[:\s]+([A-D])`),
	// trailing phrasing: "the answer is 42"
	regexp.MustCompile(`(?i)(?:answer|correct|solution)\s+(?:is|are)[:\s]+([A-Z0-9]+(?:\.[0-9]+)?)`),
}

// ExtractAnswer resolves the source answer through an ordered list of
// strategies: the explicitly provided answer, then each embedded-answer
// pattern against the question text, then the sentinel. It never returns
// an empty string.
func ExtractAnswer(questionText, providedAnswer string) string {
	if a := strings.TrimSpace(providedAnswer); a != "" && a != AnswerSentinel {
		return a
	}

	for _, re := range answerPatterns {
		if m := re.FindStringSubmatch(questionText); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	return AnswerSentinel
}
