package generator

import (
	"log"
	"strings"
)

const minDistinctAnswers = 5

// CountDistinctAnswers returns the number of unique correct answers in the
// batch, comparing case-insensitively with surrounding whitespace ignored.
func CountDistinctAnswers(questions []GeneratedQuestion) int {
	seen := make(map[string]bool)
	for _, q := range questions {
		seen[strings.ToLower(strings.TrimSpace(q.CorrectAnswer))] = true
	}
	return len(seen)
}

// warnOnLowDiversity logs when a batch repeats answers too often. Low
// diversity is a quality signal, not an error: the batch is still returned
// and persisted.
func warnOnLowDiversity(questions []GeneratedQuestion) int {
	distinct := CountDistinctAnswers(questions)
	if distinct < minDistinctAnswers {
		log.Printf("WARN: low answer diversity: only %d distinct answers across %d questions", distinct, len(questions))
	}
	return distinct
}
