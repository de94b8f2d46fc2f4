package examforge

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DB stores graded quiz attempts.
type DB struct {
	db *sql.DB
}

// Attempt is a graded quiz attempt in the database.
type Attempt struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Kind         string    `json:"kind"`
	Difficulty   string    `json:"difficulty"`
	NumQuestions int       `json:"num_questions"`
	Correct      int       `json:"correct"`
	TakenAt      time.Time `json:"taken_at"`
}

// KindLabel returns the display name of the attempt's question kind.
func (a Attempt) KindLabel() string {
	return Kind(a.Kind).Label()
}

// Score returns the attempt's score summary.
func (a Attempt) Score() Score {
	return Score{Correct: a.Correct, Total: a.NumQuestions}
}

// AttemptAnswer is one graded answer row of an attempt.
type AttemptAnswer struct {
	AttemptID     string `json:"attempt_id"`
	QuestionNum   int    `json:"question_num"`
	Text          string `json:"text"`
	QuestionType  string `json:"question_type"`
	Options       string `json:"options"` // JSON array of strings
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// OpenDB opens a new database connection
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			kind TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			num_questions INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			taken_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL,
			question_num INTEGER NOT NULL,
			text TEXT NOT NULL,
			question_type TEXT NOT NULL,
			options TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			PRIMARY KEY (attempt_id, question_num),
			FOREIGN KEY (attempt_id) REFERENCES attempts(id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveAttempt records a graded session and returns the new attempt ID. The
// session must be graded; saving is all-or-nothing.
func (db *DB) SaveAttempt(session *Session) (string, error) {
	records := session.Records()
	if len(records) == 0 {
		return "", ErrNothingToGrade
	}
	req := session.Request()
	score := session.Score()

	id := uuid.NewString()

	tx, err := db.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO attempts (id, topic, kind, difficulty, num_questions, correct, taken_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, req.Topic, string(req.Kind), string(req.Difficulty), score.Total, score.Correct, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert attempt: %w", err)
	}

	for _, r := range records {
		optionsJSON, err := OptionsToJSON(r.Question.Options)
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(
			"INSERT INTO attempt_answers (attempt_id, question_num, text, question_type, options, user_answer, correct_answer, is_correct) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			id, r.Number, r.Question.Text, r.Question.Kind.Label(), optionsJSON, r.UserAnswer, r.Question.CorrectAnswer, r.Correct,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert attempt answer %d: %w", r.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit attempt: %w", err)
	}
	return id, nil
}

// GetAttempt retrieves an attempt by ID
func (db *DB) GetAttempt(id string) (*Attempt, error) {
	var attempt Attempt
	err := db.db.QueryRow(
		"SELECT id, topic, kind, difficulty, num_questions, correct, taken_at FROM attempts WHERE id = ?",
		id,
	).Scan(&attempt.ID, &attempt.Topic, &attempt.Kind, &attempt.Difficulty, &attempt.NumQuestions, &attempt.Correct, &attempt.TakenAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("attempt not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return &attempt, nil
}

// GetAttemptAnswers retrieves the answer rows of an attempt in question order
func (db *DB) GetAttemptAnswers(id string) ([]AttemptAnswer, error) {
	rows, err := db.db.Query(
		"SELECT attempt_id, question_num, text, question_type, options, user_answer, correct_answer, is_correct FROM attempt_answers WHERE attempt_id = ? ORDER BY question_num",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt answers: %w", err)
	}
	defer rows.Close()

	var answers []AttemptAnswer
	for rows.Next() {
		var answer AttemptAnswer
		err := rows.Scan(&answer.AttemptID, &answer.QuestionNum, &answer.Text, &answer.QuestionType, &answer.Options, &answer.UserAnswer, &answer.CorrectAnswer, &answer.IsCorrect)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt answer: %w", err)
		}
		answers = append(answers, answer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempt answers: %w", err)
	}

	return answers, nil
}

// ListAttempts retrieves attempts newest first, optionally limited by count
func (db *DB) ListAttempts(limit int) ([]Attempt, error) {
	query := "SELECT id, topic, kind, difficulty, num_questions, correct, taken_at FROM attempts ORDER BY taken_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		err := rows.Scan(&attempt.ID, &attempt.Topic, &attempt.Kind, &attempt.Difficulty, &attempt.NumQuestions, &attempt.Correct, &attempt.TakenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

// Helper function to convert options slice to JSON string
func OptionsToJSON(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to marshal options: %w", err)
	}
	return string(data), nil
}

// Helper function to convert JSON string to options slice
func JSONToOptions(optionsJSON string) ([]string, error) {
	var options []string
	err := json.Unmarshal([]byte(optionsJSON), &options)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	return options, nil
}
