package examforge

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger records every model interaction of one generation run to a file.
// Logging is best-effort and never affects acquisition results.
type LLMLogger struct {
	file  *os.File
	mu    sync.Mutex
	runID string
}

// NewLLMLogger creates the run log under dir (default "log"), named after the
// run ID, and writes a header with the quiz parameters.
func NewLLMLogger(dir, runID string, req GenerationRequest) (*LLMLogger, error) {
	if dir == "" {
		dir = "log"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", runID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{
		file:  file,
		runID: runID,
	}

	logger.Logf("=== Quiz Generation Log ===\n")
	logger.Logf("Run ID: %s\n", runID)
	logger.Logf("Topic: %s\n", req.Topic)
	logger.Logf("Kind: %s\n", req.Kind.Label())
	logger.Logf("Difficulty: %s\n", req.Difficulty)
	logger.Logf("Number of Questions: %d\n", req.NumQuestions)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)

	fmt.Fprintf(ll.file, "[%s] %s", timestamp, message)
	ll.file.Sync()
}

// LogRequest records the prompt sent for one acquisition attempt.
func (ll *LLMLogger) LogRequest(kind Kind, attempt int, prompt string) {
	ll.Logf("=== REQUEST (%s, attempt %d/%d) ===\n", kind, attempt, maxAttempts)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("=====================\n\n")
}

// LogResponse records the raw model reply for one acquisition attempt.
func (ll *LLMLogger) LogResponse(kind Kind, attempt int, response string) {
	ll.Logf("=== RESPONSE (%s, attempt %d/%d) ===\n", kind, attempt, maxAttempts)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("======================\n\n")
}

// LogOutcome records how an acquisition ended.
func (ll *LLMLogger) LogOutcome(attempt int, err error) {
	if err != nil {
		ll.Logf("Acquisition FAILED after %d attempts: %v\n\n", attempt, err)
		return
	}
	ll.Logf("Question accepted on attempt %d\n\n", attempt)
}

// Close writes the trailer and closes the log file.
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] === Quiz Generation Complete ===\n", timestamp)
	fmt.Fprintf(ll.file, "[%s] Completed: %s\n", timestamp, time.Now().Format(time.RFC3339))

	err := ll.file.Close()
	ll.file = nil
	return err
}
