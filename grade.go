package examforge

import "strings"

// normalizeAnswer prepares a fill-in-the-blank value for comparison:
// surrounding whitespace and letter case are not meaningful.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// gradeAnswer applies the kind's comparison rule to one raw submission.
// Multiple choice is exact match against the correct option; fill-in-the-blank
// is compared after normalization.
func gradeAnswer(q Question, submission string) bool {
	if q.Kind == KindFillBlank {
		return normalizeAnswer(submission) == normalizeAnswer(q.CorrectAnswer)
	}
	return submission == q.CorrectAnswer
}
