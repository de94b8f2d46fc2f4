package examforge

import (
	"context"
	"fmt"
	"math/rand"
)

// SessionState tracks one quiz attempt through its lifecycle.
type SessionState string

const (
	StateEmpty     SessionState = "empty"
	StateGenerated SessionState = "generated"
	StateAnswering SessionState = "answering"
	StateGraded    SessionState = "graded"
)

// Session is the in-memory record of one quiz attempt: the generated
// questions, the raw submissions, and the graded records. A session is not
// safe for concurrent use; callers own exactly one per user context.
type Session struct {
	id          string
	state       SessionState
	request     GenerationRequest
	questions   []Question
	submissions []string
	answered    []bool
	records     []AnswerRecord
}

// NewSession creates an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{
		id:    newQuizID(),
		state: StateEmpty,
	}
}

// ID identifies the session (and its run log) across requests.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Request returns the parameters the current quiz was generated with.
func (s *Session) Request() GenerationRequest { return s.request }

// Questions returns the generated questions in order.
func (s *Session) Questions() []Question { return s.questions }

// Records returns the graded answer records, nil before grading.
func (s *Session) Records() []AnswerRecord { return s.records }

// Generate builds a fresh question list, discarding any prior attempt first.
// The source is invoked once per question, strictly sequentially; each call
// carries its own retry budget. If any acquisition fails terminally the whole
// action fails: the session is left empty with no partial question list and
// the error is returned for the caller to report.
func (s *Session) Generate(ctx context.Context, src QuestionSource, req GenerationRequest) error {
	s.reset(req)

	if req.NumQuestions < 1 {
		return fmt.Errorf("number of questions must be positive, got %d", req.NumQuestions)
	}

	questions := make([]Question, 0, req.NumQuestions)
	for i := 0; i < req.NumQuestions; i++ {
		debugf("generating question %d/%d for topic %q", i+1, req.NumQuestions, req.Topic)
		question, err := src.GenerateQuestion(ctx, req)
		if err != nil {
			return fmt.Errorf("question %d/%d: %w", i+1, req.NumQuestions, err)
		}
		questions = append(questions, question)
	}

	s.questions = questions
	s.submissions = make([]string, len(questions))
	s.answered = make([]bool, len(questions))
	s.state = StateGenerated
	return nil
}

// Submit records the raw answer for one question. Submissions may be amended
// freely until the attempt is graded.
func (s *Session) Submit(index int, answer string) error {
	switch s.state {
	case StateEmpty:
		return ErrNoQuiz
	case StateGraded:
		return ErrAlreadyGraded
	}

	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("question index %d out of range [0, %d)", index, len(s.questions))
	}

	s.submissions[index] = answer
	s.answered[index] = true
	s.state = StateAnswering
	return nil
}

// Grade computes the answer records for the attempt. It fails closed: a
// session with no questions or no submissions has nothing to grade, and every
// question must have a submission before records are computed. Grading is
// idempotent; repeat calls return the same records.
func (s *Session) Grade() ([]AnswerRecord, error) {
	if s.state == StateGraded {
		return s.records, nil
	}
	if s.state == StateEmpty || len(s.questions) == 0 {
		return nil, ErrNothingToGrade
	}

	answered := 0
	for _, ok := range s.answered {
		if ok {
			answered++
		}
	}
	if answered == 0 {
		return nil, ErrNothingToGrade
	}
	if answered != len(s.questions) {
		return nil, fmt.Errorf("%w: %d of %d questions answered", ErrUnanswered, answered, len(s.questions))
	}

	records := make([]AnswerRecord, len(s.questions))
	for i, q := range s.questions {
		records[i] = AnswerRecord{
			Number:     i + 1,
			Question:   q,
			UserAnswer: s.submissions[i],
			Correct:    gradeAnswer(q, s.submissions[i]),
		}
	}

	s.records = records
	s.state = StateGraded
	return records, nil
}

// Score summarizes the graded attempt. Zero before grading.
func (s *Session) Score() Score {
	score := Score{Total: len(s.records)}
	for _, r := range s.records {
		if r.Correct {
			score.Correct++
		}
	}
	return score
}

// reset discards all state from a prior attempt.
func (s *Session) reset(req GenerationRequest) {
	s.state = StateEmpty
	s.request = req
	s.questions = nil
	s.submissions = nil
	s.answered = nil
	s.records = nil
}

func newQuizID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 12)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
