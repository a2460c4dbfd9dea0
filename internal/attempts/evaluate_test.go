package attempts

import "testing"

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		name    string
		correct string
		student string
		want    bool
	}{
		{"exact", "42", "42", true},
		{"case insensitive", "B", "b", true},
		{"whitespace", " 7/12 ", "7/12", true},
		{"numeric tolerance", "3.5", "3.5001", true},
		{"numeric outside tolerance", "3.5", "3.52", false},
		{"currency and separators", "1800", "$1,800.00", true},
		{"trailing unit", "42", "42 cm", true},
		{"percent sign", "25", "25%", true},
		{"word answer", "isosceles", "Isosceles", true},
		{"word answer normalized", "isosceles triangle", "isosceles  triangle!", true},
		{"wrong number", "42", "43", false},
		{"wrong word", "isosceles", "equilateral", false},
		{"empty student", "42", "", false},
		{"empty student whitespace", "42", "   ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AnswersMatch(tc.correct, tc.student)
			if got != tc.want {
				t.Errorf("AnswersMatch(%q, %q) = %t, want %t", tc.correct, tc.student, got, tc.want)
			}
		})
	}
}

func TestAnswersMatch_FractionsCompareAsText(t *testing.T) {
	// "3/5" does not parse as a float; fractions match textually.
	if !AnswersMatch("3/5", "3/5") {
		t.Error("identical fractions must match")
	}
	if AnswersMatch("3/5", "6/10") {
		t.Error("equivalent but differently written fractions do not match")
	}
}

func TestParseNumeric(t *testing.T) {
	v, ok := parseNumeric("$1,800.00")
	if !ok || v != 1800 {
		t.Errorf("expected 1800, got %v (ok=%t)", v, ok)
	}
	if _, ok := parseNumeric("isosceles"); ok {
		t.Error("words must not parse as numbers")
	}
	v, ok = parseNumeric("42 cm")
	if !ok || v != 42 {
		t.Errorf("expected 42, got %v (ok=%t)", v, ok)
	}
}
