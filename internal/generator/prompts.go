package generator

import (
	"fmt"
	"strings"
)

const basePrompt = `You are an expert EQAO math examiner specializing in Grade 9 Ontario curriculum mathematics. Your task is to generate EQAO-style math questions that demonstrate deep understanding and consistent concept application.

CRITICAL FORMATTING RULES:
- Write ALL mathematical expressions in plain text format, NOT LaTeX
- For fractions, write as: (a/b) or a/b, NOT \frac{a}{b}
- For exponents, write as: x^2 or x squared, NOT x^{2}
- For angles, write as: 45 degrees, NOT 45^\circ
- For square roots, write as: sqrt(x) or square root of x, NOT \sqrt{x}
- DO NOT use any LaTeX commands, escape sequences, or special formatting
- Keep all text readable as plain English with standard mathematical notation

CRITICAL QUESTION STRUCTURE AND DIFFICULTY PROGRESSION:
- Questions 1-2: VERY EASY - Direct, straightforward application. Simple numbers, immediate recognition. NO word problems.
- Questions 3-4: MEDIUM - Same concept with more complex numbers or one additional step. NO word problems.
- Questions 5-7: TOUGH - Application-oriented word problems with real-world scenarios.
- Questions 8-10: MORE TOUGH - Highly complex application-oriented word problems with multi-step reasoning.

ALL 10 questions MUST use the EXACT same mathematical concept, formula, and calculation method as the source question. Complexity increases through harder numbers, multi-step reasoning, and real-world application - NOT by changing the core concept.

Return your response as a JSON object with a "questions" array containing exactly 10 questions. Each question has the fields: question_number, question_text, correct_answer, difficulty_level, explanation.`

var typeGuidance = map[QuestionType]string{
	TypeGeometryWithDiagram: `
GEOMETRY WITH DIAGRAMS - CRITICAL REQUIREMENTS:

1. CONCEPT ANALYSIS:
   - Identify the EXACT geometric concept (angle relationships, area formulas, triangle properties, circle theorems, etc.)
   - Extract all relevant measurements, angles, and relationships from the source

2. QUESTION VARIETY (CRITICAL - EACH QUESTION MUST BE DIFFERENT):
   - Questions 1-2: Ask about DIFFERENT angles, lengths, or simple properties (NOT always the same angle!)
   - Questions 3-4: Areas, perimeters, or other derived quantities
   - Questions 5-7: Real-world applications asking for different measurements
   - Questions 8-10: Complex multi-step problems combining multiple geometric principles

3. DIAGRAM DESCRIPTIONS:
   - Each question MUST describe a UNIQUE diagram/scenario with explicit measurement labels
   - Include specific measurements and angle labels in every description

4. ANSWER VARIETY:
   - DO NOT make all answers the same! Vary what is being asked so each question has a DIFFERENT answer`,

	TypeGraph: `
GRAPH ANALYSIS - CRITICAL REQUIREMENTS:

1. Analyze the graph type (line graph, bar chart, scatter plot, etc.) and its axes, scales, and trends
2. Progression:
   - Questions 1-2: Reading values from the graph
   - Questions 3-4: Calculating slopes, rates, or simple relationships
   - Questions 5-7: Interpreting trends and making predictions
   - Questions 8-10: Complex analysis combining multiple data points or trends`,

	TypeTable: `
TABLE/DATA ANALYSIS - CRITICAL REQUIREMENTS:

1. Analyze the table structure and data relationships
2. Progression:
   - Questions 1-2: Reading values from the table
   - Questions 3-4: Calculating means, medians, or simple statistics
   - Questions 5-7: Analyzing patterns and relationships
   - Questions 8-10: Complex data analysis and predictions`,

	TypeAlgebra: `
ALGEBRA - CRITICAL REQUIREMENTS:

1. Identify the algebraic concept (solving equations, simplifying expressions, etc.) - the concept must not change across the 10 questions
2. Progression:
   - Questions 1-2: Simple substitution or basic solving
   - Questions 3-4: More complex equations with multiple steps
   - Questions 5-7: Word problems requiring equation setup
   - Questions 8-10: Complex multi-step algebraic problems`,

	TypeFractions:        numberOperationsGuidance,
	TypeExponents:        numberOperationsGuidance,
	TypePercentage:       numberOperationsGuidance,
	TypeNumberOperations: numberOperationsGuidance,
}

const numberOperationsGuidance = `
NUMBER OPERATIONS - CRITICAL REQUIREMENTS:

1. Identify the exact operation type - it must stay identical across all 10 questions; only the numeric complexity scales
2. Progression:
   - Questions 1-2: Simple direct calculations
   - Questions 3-4: Slightly more complex numbers
   - Questions 5-7: Word problems with real-world contexts
   - Questions 8-10: Complex multi-step problems`

const mixedGuidance = `
GENERAL MATHEMATICS - CRITICAL REQUIREMENTS:

1. Deeply analyze the source question's core concept
2. Generate 10 questions that use the same concept throughout, progressively increase in complexity, and have varied answers (not all the same!)`

// SystemPromptForType returns the full system prompt for the detected
// question type. Unrecognized types fall back to the generic template.
func SystemPromptForType(qt QuestionType, hasVisual bool) string {
	guidance, ok := typeGuidance[qt]
	if !ok {
		guidance = mixedGuidance
	}
	return basePrompt + "\n" + guidance
}

const imageContext = `

CRITICAL: The source question includes an IMAGE/DIAGRAM.
- Analyze the visual elements in the image VERY CAREFULLY
- Identify ALL shapes, angles, measurements, labels, and relationships shown
- Extract all numerical values and relationships from the diagram
- This visual information is ESSENTIAL for generating appropriate questions`

// geometryVarietyDirective is repeated at the orchestration level because
// restating the same question with cosmetic numeric changes is the most
// common model failure mode for geometry sources.
const geometryVarietyDirective = `

CRITICAL - QUESTION VARIETY REQUIREMENT:
You MUST generate questions that ask for DIFFERENT things, not just the same answer with different numbers!

For geometry questions, vary what is being asked:
- Questions 1-2: Ask about DIFFERENT angles, lengths, or simple properties (NOT always the same angle!)
- Questions 3-4: Ask about areas, perimeters, or other derived quantities
- Questions 5-7: Real-world applications asking for different measurements or calculations
- Questions 8-10: Complex problems combining multiple concepts

EXAMPLE - If the source asks about an angle in a semicircle:
- Q1: Find the OTHER base angle (not the 90-degree one)
- Q2: Find the arc length or chord length
- Q3: Calculate the area of the triangle
- Q4: Find the radius given certain measurements

DO NOT make all questions ask for the same thing! Each question should have a UNIQUE answer.`

// BuildUserPrompt assembles the user-turn payload: the source material, the
// classifier's findings, and the structural requirements for the batch.
func BuildUserPrompt(src SourceMaterial, analysis QuestionTypeAnalysis) string {
	var sb strings.Builder

	sb.WriteString("Generate 10 EQAO-style math questions based on the following source question.\n\n")
	sb.WriteString("You must deeply understand the source question's concept and generate 10 questions that all use that SAME concept with progressive difficulty AND VARIED ANSWERS.\n\n")

	fmt.Fprintf(&sb, "DETECTED QUESTION TYPE: %s\n", strings.ToUpper(string(analysis.Type)))
	fmt.Fprintf(&sb, "CORE CONCEPT: %s\n", analysis.Concept)
	if len(analysis.Keywords) > 0 {
		fmt.Fprintf(&sb, "KEYWORDS: %s\n", strings.Join(analysis.Keywords, ", "))
	}

	sb.WriteString("\nSOURCE QUESTION (may include multiple choice answers):\n")
	sb.WriteString(src.Question)

	if src.ImageDataURL != "" {
		sb.WriteString(imageContext)
	}
	if analysis.Type == TypeGeometryWithDiagram {
		sb.WriteString(geometryVarietyDirective)
	}

	if src.Answer != "" && src.Answer != AnswerSentinel {
		sb.WriteString("\n\nSOURCE ANSWER:\n")
		sb.WriteString(src.Answer)
	} else {
		sb.WriteString("\n\nNote: The correct answer should be extracted from the source question above.")
	}

	if src.Explanation != "" {
		sb.WriteString("\n\nSOURCE EXPLANATION:\n")
		sb.WriteString(src.Explanation)
	}

	sb.WriteString(`

REQUIREMENTS:
1. Generate exactly 10 questions, numbered 1 through 10, in a JSON object: {"questions": [{"question_number": 1, "question_text": "...", "correct_answer": "...", "difficulty_level": 1, "explanation": "..."}, ...]}
2. Questions 1-2 must be very easy, 3-4 medium, 5-7 tough, 8-10 more tough
3. Questions 5-10 MUST be word problems with real-world application scenarios - NO exceptions
4. Each question must have a clear, correct answer in plain text format
5. Include explanations for questions 5-10
6. Write all mathematical expressions in plain text - use (a/b) for fractions, x^2 for exponents, sqrt(x) for square roots
7. MOST IMPORTANT: Each question must have a DIFFERENT answer! Do NOT make all questions have the same answer. Vary what is being asked.
8. Ensure the JSON is valid and parseable and contains exactly 10 questions.`)

	return sb.String()
}
