package generator

import "testing"

func batchWithAnswers(answers ...string) []GeneratedQuestion {
	questions := make([]GeneratedQuestion, len(answers))
	for i, a := range answers {
		questions[i] = GeneratedQuestion{
			QuestionNumber: i + 1,
			QuestionText:   "placeholder",
			CorrectAnswer:  a,
		}
	}
	return questions
}

func TestCountDistinctAnswers(t *testing.T) {
	questions := batchWithAnswers("5", "10", "5", "15", "20")

	if got := CountDistinctAnswers(questions); got != 4 {
		t.Errorf("expected 4 distinct answers, got %d", got)
	}
}

func TestCountDistinctAnswers_CaseAndWhitespace(t *testing.T) {
	questions := batchWithAnswers("See question text", " see question text ", "SEE QUESTION TEXT")

	if got := CountDistinctAnswers(questions); got != 1 {
		t.Errorf("expected 1 distinct answer, got %d", got)
	}
}

func TestWarnOnLowDiversity_ReturnsCount(t *testing.T) {
	// Low diversity warns but never rejects the batch.
	questions := batchWithAnswers("5", "5", "5", "5", "5", "5", "5", "5", "5", "5")

	if got := warnOnLowDiversity(questions); got != 1 {
		t.Errorf("expected distinct count 1, got %d", got)
	}

	diverse := batchWithAnswers("1", "2", "3", "4", "5", "6", "7", "8", "9", "10")
	if got := warnOnLowDiversity(diverse); got != 10 {
		t.Errorf("expected distinct count 10, got %d", got)
	}
}
