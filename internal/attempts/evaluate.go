package attempts

import (
	"strconv"
	"strings"
)

const numericTolerance = 0.001

// AnswersMatch grades a student answer against the stored correct answer.
// Comparison order: case-insensitive text match, then numeric comparison
// with a small tolerance, then a normalized match with units and
// punctuation stripped ("$1,800.00" matches "1800").
func AnswersMatch(correctAnswer, studentAnswer string) bool {
	correct := strings.TrimSpace(correctAnswer)
	student := strings.TrimSpace(studentAnswer)
	if student == "" {
		return false
	}

	if strings.EqualFold(correct, student) {
		return true
	}

	cNum, cOK := parseNumeric(correct)
	sNum, sOK := parseNumeric(student)
	if cOK && sOK {
		diff := cNum - sNum
		if diff < 0 {
			diff = -diff
		}
		return diff <= numericTolerance
	}

	return normalize(correct) != "" && normalize(correct) == normalize(student)
}

// parseNumeric extracts a float from an answer that may carry currency
// symbols, thousands separators, or a trailing unit word.
func parseNumeric(s string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)

	// Drop a trailing unit: "42 cm" -> "42".
	if i := strings.IndexByte(cleaned, ' '); i > 0 {
		cleaned = cleaned[:i]
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	return v, err == nil
}

func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '/' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
