package generator

import "testing"

func TestClassify_GeometryWithImage(t *testing.T) {
	text := "A triangle is inscribed in a semicircle with diameter 14 cm. One base angle measures 35 degrees. Find angle x."

	analysis := Classify(text, true)

	if analysis.Type != TypeGeometryWithDiagram {
		t.Errorf("expected geometry_with_diagram, got %s", analysis.Type)
	}
	if !analysis.HasVisual {
		t.Error("expected HasVisual to be true with an image present")
	}
	if len(analysis.Keywords) == 0 {
		t.Error("expected geometry keywords to be captured")
	}
}

func TestClassify_GeometryFromVisualWord(t *testing.T) {
	// No image, but "shown" plus geometry vocabulary implies a diagram.
	text := "In the diagram shown, a circle has radius 5 cm. Find the area."

	analysis := Classify(text, false)

	if analysis.Type != TypeGeometryWithDiagram {
		t.Errorf("expected geometry_with_diagram, got %s", analysis.Type)
	}
	if !analysis.HasVisual {
		t.Error("expected HasVisual from visual vocabulary")
	}
}

func TestClassify_ExponentsWithFractionBase(t *testing.T) {
	// "(2/3)^2" carries both a fraction and an exponent signal; a single
	// fraction hit is not enough, so the exponent wins.
	analysis := Classify("Evaluate (2/3)^2 without a calculator.", false)

	if analysis.Type != TypeExponents {
		t.Errorf("expected exponents, got %s", analysis.Type)
	}
}

func TestClassify_FractionVocabularyWinsOverExponent(t *testing.T) {
	// Two fraction hits outrank a lone exponent hit in the priority chain.
	analysis := Classify("Write (2/3)^2 as a single fraction in lowest terms.", false)

	if analysis.Type != TypeFractions {
		t.Errorf("expected fractions, got %s", analysis.Type)
	}
}

func TestClassify_Graph(t *testing.T) {
	analysis := Classify("The graph shows a line with slope 2 passing through the origin. Find the y-intercept.", false)

	if analysis.Type != TypeGraph {
		t.Errorf("expected graph, got %s", analysis.Type)
	}
}

func TestClassify_Table(t *testing.T) {
	analysis := Classify("The table lists test scores for a class. Calculate the mean score.", false)

	if analysis.Type != TypeTable {
		t.Errorf("expected table, got %s", analysis.Type)
	}
}

func TestClassify_Algebra(t *testing.T) {
	analysis := Classify("Solve the equation 3x + 5 = 20 for the variable.", false)

	if analysis.Type != TypeAlgebra {
		t.Errorf("expected algebra, got %s", analysis.Type)
	}
}

func TestClassify_Percentage(t *testing.T) {
	analysis := Classify("A jacket costs $80 and is discounted by 25 percent. What is the sale price?", false)

	if analysis.Type != TypePercentage {
		t.Errorf("expected percentage, got %s", analysis.Type)
	}
}

func TestClassify_FallbackToMixed(t *testing.T) {
	analysis := Classify("What comes next in the sequence 2, 4, 8, 16?", false)

	if analysis.Type != TypeMixed {
		t.Errorf("expected mixed, got %s", analysis.Type)
	}
	if analysis.Concept != "general mathematics" {
		t.Errorf("expected generic concept, got %q", analysis.Concept)
	}
}

func TestClassify_KeywordsDeduplicated(t *testing.T) {
	analysis := Classify("Find the angle. The angle is part of a triangle. Another angle is given.", true)

	seen := make(map[string]int)
	for _, k := range analysis.Keywords {
		seen[k]++
		if seen[k] > 1 {
			t.Errorf("keyword %q appears more than once", k)
		}
	}
}
