package generator

// QuestionType is the category assigned to a source question by the
// classifier. It selects the prompt template and drives diagram synthesis.
type QuestionType string

const (
	TypeGeometryWithDiagram QuestionType = "geometry_with_diagram"
	TypeAlgebra             QuestionType = "algebra"
	TypeGraph               QuestionType = "graph"
	TypeTable               QuestionType = "table"
	TypeFractions           QuestionType = "fractions"
	TypeExponents           QuestionType = "exponents"
	TypePercentage          QuestionType = "percentage"
	TypeNumberOperations    QuestionType = "number_operations"
	TypeMixed               QuestionType = "mixed"
)

// QuestionTypeAnalysis is the classifier's output. It is computed once per
// generation request and consumed by the prompt composer and the diagram
// synthesizer; it is never persisted.
type QuestionTypeAnalysis struct {
	Type      QuestionType
	HasVisual bool
	Concept   string
	Keywords  []string
}

// SourceMaterial is the admin-supplied seed for one generation run.
type SourceMaterial struct {
	Question    string
	Answer      string
	Explanation string
	// ImageDataURL holds the source image as a data URL, empty if none.
	ImageDataURL string
}

// GeneratedQuestion is one of the exactly ten questions produced per run.
// DifficultyLevel always equals QuestionNumber — the model's self-reported
// difficulty is discarded.
type GeneratedQuestion struct {
	QuestionNumber   int    `json:"question_number"`
	QuestionText     string `json:"question_text"`
	CorrectAnswer    string `json:"correct_answer"`
	DifficultyLevel  int    `json:"difficulty_level"`
	Explanation      string `json:"explanation,omitempty"`
	QuestionImageURL string `json:"question_image_url,omitempty"`
}

// DifficultyBand is one of the four fixed difficulty categories.
type DifficultyBand string

const (
	BandVeryEasy  DifficultyBand = "very_easy"
	BandMedium    DifficultyBand = "medium"
	BandTough     DifficultyBand = "tough"
	BandMoreTough DifficultyBand = "more_tough"
)

// BandForOrdinal maps a question's 1-based position to its difficulty band:
// 1-2 very easy, 3-4 medium, 5-7 tough, 8-10 more tough.
func BandForOrdinal(n int) DifficultyBand {
	switch {
	case n <= 2:
		return BandVeryEasy
	case n <= 4:
		return BandMedium
	case n <= 7:
		return BandTough
	default:
		return BandMoreTough
	}
}
