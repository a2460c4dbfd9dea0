package generator

import "strings"

// Keyword lists per category. Hits are counted with plain substring
// matching against the lower-cased question text.
var geometryKeywords = []string{
	"triangle", "circle", "semicircle", "rectangle", "square", "angle", "degrees",
	"perimeter", "area", "volume", "diameter", "radius", "inscribed", "circumscribed",
	"parallel", "perpendicular", "congruent", "similar", "polygon", "quadrilateral",
}

var algebraKeywords = []string{
	"solve", "equation", "variable", "x =", "y =", "linear", "quadratic",
	"expression", "simplify", "factor", "expand", "substitute",
}

var graphKeywords = []string{
	"graph", "plot", "coordinate", "axis", "axes", "slope", "intercept",
	"line", "curve", "point", "ordered pair",
}

var tableKeywords = []string{
	"table", "chart", "data", "frequency", "mean", "median", "mode",
	"statistics", "probability",
}

var fractionKeywords = []string{
	"fraction", "/", "numerator", "denominator", "divide", "quotient",
}

var exponentKeywords = []string{
	"exponent", "power", "squared", "cubed", "^", "raised to",
}

var percentageKeywords = []string{
	"percent", "%", "percentage", "discount", "tax", "interest",
}

// Words that imply the question references something the student looks at.
var visualWords = []string{"diagram", "graph", "table", "chart", "figure", "shown"}

// Classify inspects the source question text and assigns a question type,
// a concept label, and the keywords that matched. It always returns a
// value; text matching nothing degrades to TypeMixed with a generic
// concept. Priority order resolves ambiguous questions toward the category
// needing the most specialized prompt guidance (a geometry word problem
// that mentions a table classifies as a table question only when no visual
// geometry signal is present).
func Classify(questionText string, hasImage bool) QuestionTypeAnalysis {
	lower := strings.ToLower(questionText)

	hasVisual := hasImage
	for _, w := range visualWords {
		if strings.Contains(lower, w) {
			hasVisual = true
			break
		}
	}

	geometryHits := matchKeywords(lower, geometryKeywords)
	algebraHits := matchKeywords(lower, algebraKeywords)
	graphHits := matchKeywords(lower, graphKeywords)
	tableHits := matchKeywords(lower, tableKeywords)
	fractionHits := matchKeywords(lower, fractionKeywords)
	exponentHits := matchKeywords(lower, exponentKeywords)
	percentageHits := matchKeywords(lower, percentageKeywords)

	analysis := QuestionTypeAnalysis{
		Type:      TypeMixed,
		HasVisual: hasVisual,
		Concept:   "general mathematics",
	}

	switch {
	case hasVisual && len(geometryHits) > 0:
		analysis.Type = TypeGeometryWithDiagram
		analysis.Concept = "geometry with visual diagrams"
		analysis.Keywords = geometryHits
	case len(graphHits) > 0:
		analysis.Type = TypeGraph
		analysis.Concept = "graph analysis"
		analysis.Keywords = graphHits
	case len(tableHits) > 0:
		analysis.Type = TypeTable
		analysis.Concept = "data analysis"
		analysis.Keywords = tableHits
	case len(geometryHits) > 2:
		analysis.Type = TypeGeometryWithDiagram
		analysis.Concept = "geometry"
		analysis.Keywords = geometryHits
	case len(algebraHits) > 1:
		analysis.Type = TypeAlgebra
		analysis.Concept = "algebraic equations"
		analysis.Keywords = algebraHits
	case len(fractionHits) > 1:
		analysis.Type = TypeFractions
		analysis.Concept = "fraction operations"
		analysis.Keywords = fractionHits
	case len(exponentHits) > 0:
		analysis.Type = TypeExponents
		analysis.Concept = "exponent operations"
		analysis.Keywords = exponentHits
	case len(percentageHits) > 0:
		analysis.Type = TypePercentage
		analysis.Concept = "percentage calculations"
		analysis.Keywords = percentageHits
	}

	return analysis
}

// matchKeywords returns the deduplicated keywords present in lower.
func matchKeywords(lower string, keywords []string) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, k := range keywords {
		if strings.Contains(lower, k) && !seen[k] {
			seen[k] = true
			matched = append(matched, k)
		}
	}
	return matched
}
