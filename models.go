package examforge

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the question variant.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindFillBlank      Kind = "fill_blank"
)

// Label returns the human-readable kind name used in exports and the UI.
func (k Kind) Label() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple Choice"
	case KindFillBlank:
		return "Fill in the Blank"
	default:
		return string(k)
	}
}

// ParseKind maps user input to a question kind. Matching is case-insensitive
// and accepts the common short forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "multiple-choice", "multiple choice", "mcq":
		return KindMultipleChoice, nil
	case "fill_blank", "fill-blank", "fill in the blank", "fill":
		return KindFillBlank, nil
	}
	return "", fmt.Errorf("unknown question kind: %q", s)
}

// Difficulty is the requested difficulty level for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty maps user input to a difficulty level, case-insensitively.
// Empty input falls back to medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DifficultyMedium, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// Bounds for the number of questions in one quiz.
const (
	MinQuestions     = 1
	MaxQuestions     = 20
	DefaultQuestions = 5
)

// ClampQuestionCount pulls a requested count into the allowed range. Zero and
// negative values fall back to the default.
func ClampQuestionCount(n int) int {
	if n < MinQuestions {
		return DefaultQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}

// Question is a single validated quiz question. For multiple choice the
// correct answer equals one of the options verbatim; for fill-in-the-blank
// the text contains the blank marker and the correct answer is the value
// that fills it.
type Question struct {
	Kind          Kind       `json:"kind"`
	Text          string     `json:"text"`
	Options       []string   `json:"options,omitempty"`
	CorrectAnswer string     `json:"correct_answer"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// GenerationRequest represents a request to generate questions
type GenerationRequest struct {
	Topic        string     `json:"topic"`
	Kind         Kind       `json:"kind"`
	Difficulty   Difficulty `json:"difficulty"`
	NumQuestions int        `json:"num_questions"`
}

// Quiz represents a complete generated question set with metadata
type Quiz struct {
	ID         string     `json:"id"`
	Topic      string     `json:"topic"`
	Kind       Kind       `json:"kind"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AnswerRecord pairs a question with the user's raw submission and the graded
// outcome. Records are built once, at grading time, in question order.
type AnswerRecord struct {
	Number     int      `json:"question_number"` // 1-based
	Question   Question `json:"question"`
	UserAnswer string   `json:"user_answer"`
	Correct    bool     `json:"is_correct"`
}

// Score summarizes a graded attempt.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns the score as a percentage, zero for an empty attempt.
func (s Score) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%)", s.Correct, s.Total, s.Percent())
}
