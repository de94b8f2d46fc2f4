package examforge

import (
	"fmt"
	"strings"
)

// BlankMarker is the literal placeholder a fill-in-the-blank question must
// contain.
const BlankMarker = "_____"

// shortMarker is the truncated placeholder models sometimes emit instead.
const shortMarker = "___"

// ValidateQuestion checks a generated question against the structural rules
// for its kind. A question must pass before it may enter a session. Duplicate
// options are tolerated.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuestion
	}

	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("%w: got %d", ErrOptionCount, len(q.Options))
		}
		if q.CorrectAnswer == "" {
			return ErrEmptyAnswer
		}
		for _, option := range q.Options {
			if option == q.CorrectAnswer {
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrAnswerNotInOptions, q.CorrectAnswer)

	case KindFillBlank:
		if q.CorrectAnswer == "" {
			return ErrEmptyAnswer
		}
		if !strings.Contains(q.Text, BlankMarker) {
			return ErrMissingBlank
		}
		return nil

	default:
		return fmt.Errorf("unknown question kind: %q", q.Kind)
	}
}

// RepairBlankMarker widens the short blank form to the canonical marker.
// Applied at most once per generated text; returns the input unchanged when
// the canonical marker is already present or no short marker exists.
func RepairBlankMarker(text string) string {
	if strings.Contains(text, BlankMarker) || !strings.Contains(text, shortMarker) {
		return text
	}
	return strings.ReplaceAll(text, shortMarker, BlankMarker)
}
