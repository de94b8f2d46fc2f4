package examforge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// maxAttempts bounds the send/parse/validate cycles for one question.
const maxAttempts = 3

// QuestionSource produces one validated question per call. Implemented by
// Generator; sessions depend on the interface so tests can script outcomes.
type QuestionSource interface {
	GenerateQuestion(ctx context.Context, req GenerationRequest) (Question, error)
}

// Generator turns quiz parameters into validated questions using a chat
// model.
type Generator struct {
	client ChatCompleter
	logger *LLMLogger
}

// NewGenerator creates a generator on top of any chat completion client.
func NewGenerator(client ChatCompleter) *Generator {
	return &Generator{client: client}
}

// NewGroqGenerator is the common construction path: a generator backed by
// the Groq API. Fails when no API key is supplied.
func NewGroqGenerator(apiKey, model, baseURL string) (*Generator, error) {
	client, err := NewGroqClient(apiKey, model, baseURL)
	if err != nil {
		return nil, err
	}
	return NewGenerator(client), nil
}

// SetLogger attaches a per-run interaction log. Passing nil detaches it.
func (g *Generator) SetLogger(logger *LLMLogger) {
	g.logger = logger
}

// GenerateQuestion produces one validated question for the request, retrying
// the full send/parse/validate cycle up to 3 times. The prompt never changes
// between attempts and there is no backoff. The terminal error wraps the last
// attempt's failure; on success nothing partial is ever returned.
func (g *Generator) GenerateQuestion(ctx context.Context, req GenerationRequest) (Question, error) {
	system := systemPrompt(req.Kind)
	user := buildPrompt(req)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		question, err := g.generateOnce(ctx, req, system, user, attempt)
		if err != nil {
			debugf("attempt %d/%d for %s question failed: %v", attempt, maxAttempts, req.Kind, err)
			lastErr = err
			continue
		}
		if g.logger != nil {
			g.logger.LogOutcome(attempt, nil)
		}
		return question, nil
	}

	terminal := &AcquisitionError{Kind: req.Kind, Attempts: maxAttempts, Err: lastErr}
	if g.logger != nil {
		g.logger.LogOutcome(maxAttempts, terminal)
	}
	return Question{}, terminal
}

// generateOnce runs one complete acquisition attempt.
func (g *Generator) generateOnce(ctx context.Context, req GenerationRequest, system, user string, attempt int) (Question, error) {
	if g.logger != nil {
		g.logger.LogRequest(req.Kind, attempt, user)
	}

	reply, err := g.client.Complete(ctx, system, user)
	if err != nil {
		return Question{}, err
	}
	if g.logger != nil {
		g.logger.LogResponse(req.Kind, attempt, reply)
	}

	question, err := parseQuestion(req, reply)
	if err != nil {
		return Question{}, err
	}
	if err := ValidateQuestion(question); err != nil {
		return Question{}, err
	}
	return question, nil
}

// parseQuestion decodes one model reply into a question of the requested
// kind. Fill-in-the-blank text gets the marker repair before validation.
func parseQuestion(req GenerationRequest, reply string) (Question, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return Question{}, err
	}

	question := Question{
		Kind:       req.Kind,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		CreatedAt:  time.Now(),
	}

	switch req.Kind {
	case KindMultipleChoice:
		var payload struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correct_answer"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return Question{}, fmt.Errorf("parse multiple choice payload: %w", err)
		}
		question.Text = payload.Question
		question.Options = payload.Options
		question.CorrectAnswer = payload.CorrectAnswer

	case KindFillBlank:
		var payload struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return Question{}, fmt.Errorf("parse fill blank payload: %w", err)
		}
		question.Text = RepairBlankMarker(payload.Question)
		question.CorrectAnswer = payload.Answer

	default:
		return Question{}, fmt.Errorf("unknown question kind: %q", req.Kind)
	}

	return question, nil
}

// extractJSON returns the JSON object embedded in a model reply, tolerating
// markdown fences and surrounding prose.
func extractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}

func systemPrompt(kind Kind) string {
	if kind == KindFillBlank {
		return "You are an expert quiz question generator. Generate high-quality fill-in-the-blank questions and respond with JSON only."
	}
	return "You are an expert quiz question generator. Generate high-quality multiple choice questions with exactly 4 options each and respond with JSON only."
}

func buildPrompt(req GenerationRequest) string {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	var sb strings.Builder

	switch req.Kind {
	case KindFillBlank:
		sb.WriteString(fmt.Sprintf("Generate a %s fill-in-the-blank question about: %s\n\n", difficulty, req.Topic))
		sb.WriteString("Requirements:\n")
		sb.WriteString("- The question text must contain the marker _____ where the answer belongs\n")
		sb.WriteString("- The answer must be the exact word or phrase that fills the blank\n")
		sb.WriteString("- The question should test understanding, not just memorization\n")
		sb.WriteString("- Return only a JSON object with keys \"question\" and \"answer\"\n")
	default:
		sb.WriteString(fmt.Sprintf("Generate a %s multiple choice question about: %s\n\n", difficulty, req.Topic))
		sb.WriteString("Requirements:\n")
		sb.WriteString("- Provide exactly 4 options\n")
		sb.WriteString("- The correct answer must match one of the options exactly\n")
		sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
		sb.WriteString("- The question should test understanding, not just memorization\n")
		sb.WriteString("- Return only a JSON object with keys \"question\", \"options\" and \"correct_answer\"\n")
	}

	return sb.String()
}
