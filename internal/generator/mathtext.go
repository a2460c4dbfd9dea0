package generator

import (
	"regexp"
	"strings"
)

// Replacements run in order; later patterns assume earlier ones have
// already fired (math delimiters go first, stray-backslash cleanup last).
var (
	latexFracRe    = regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`)
	latexLeftRe    = regexp.MustCompile(`\\left([(\[])`)
	latexRightRe   = regexp.MustCompile(`\\right([)\]])`)
	latexSqrtNthRe = regexp.MustCompile(`\\sqrt\[([^\]]+)\]\{([^}]+)\}`)
	latexSqrtRe    = regexp.MustCompile(`\\sqrt\{([^}]+)\}`)
	latexTextRe    = regexp.MustCompile(`\\text\{([^}]+)\}`)
	latexDegreeRe  = regexp.MustCompile(`\^\\circ`)
	escapedBraceRe = regexp.MustCompile(`\\([{}])`)
	doubleSlashRe  = regexp.MustCompile(`\\\\`)
	straySlashRe   = regexp.MustCompile(`\\([()\[\]])`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// mathDelims are the inline/display math delimiters stripped outright.
var mathDelims = strings.NewReplacer(`\(`, "", `\)`, "", `\[`, "", `\]`, "")

// CleanMathText strips leftover LaTeX syntax from model output, converting
// fractions, roots, and degree notation to the plain-text forms the prompt
// demands. Cleaning already-clean text is a no-op, so the cleanup can be
// applied at every layer that touches question text.
func CleanMathText(text string) string {
	if text == "" {
		return text
	}

	s := text
	s = latexDegreeRe.ReplaceAllString(s, " degrees")
	s = latexFracRe.ReplaceAllString(s, "($1)/($2)")
	s = latexLeftRe.ReplaceAllString(s, "$1")
	s = latexRightRe.ReplaceAllString(s, "$1")
	s = latexSqrtNthRe.ReplaceAllString(s, "sqrt[$1]($2)")
	s = latexSqrtRe.ReplaceAllString(s, "sqrt($1)")
	s = latexTextRe.ReplaceAllString(s, "$1")
	s = mathDelims.Replace(s)
	s = escapedBraceRe.ReplaceAllString(s, "$1")
	s = doubleSlashRe.ReplaceAllString(s, "")
	s = straySlashRe.ReplaceAllString(s, "$1")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
