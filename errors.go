package examforge

import (
	"errors"
	"fmt"
)

// Validation failures for generated questions, one per rule.
var (
	ErrEmptyQuestion      = errors.New("question text is empty")
	ErrOptionCount        = errors.New("multiple choice requires exactly 4 options")
	ErrEmptyAnswer        = errors.New("correct answer is empty")
	ErrAnswerNotInOptions = errors.New("correct answer is not one of the options")
	ErrMissingBlank       = errors.New("fill in the blank question has no blank marker")
)

// ErrMissingAPIKey is returned at construction time when no credential is
// available. Nothing may be generated without one.
var ErrMissingAPIKey = errors.New("api key is required")

// Session precondition errors.
var (
	ErrNoQuiz         = errors.New("no quiz has been generated")
	ErrNothingToGrade = errors.New("nothing to grade")
	ErrUnanswered     = errors.New("unanswered questions remain")
	ErrAlreadyGraded  = errors.New("attempt already graded")
)

// AcquisitionError is the terminal failure of one question acquisition after
// the retry budget is spent. Err holds the last attempt's failure.
type AcquisitionError struct {
	Kind     Kind
	Attempts int
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to generate a valid question after %d attempts: %v", e.Attempts, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
