package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"examforge"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// apiQuestion is a question as served to API clients, with the correct answer
// withheld until grading.
type apiQuestion struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

func (s *Server) apiGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Topic        string `json:"topic"`
		QuestionType string `json:"question_type"`
		Difficulty   string `json:"difficulty"`
		NumQuestions int    `json:"num_questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(in.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	kind, err := examforge.ParseKind(in.QuestionType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	difficulty, err := examforge.ParseDifficulty(in.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := examforge.GenerationRequest{
		Topic:        strings.TrimSpace(in.Topic),
		Kind:         kind,
		Difficulty:   difficulty,
		NumQuestions: examforge.ClampQuestionCount(in.NumQuestions),
	}

	sess := examforge.NewSession()
	if err := s.generate(r, sess, req); err != nil {
		log.Printf("Quiz generation failed: %v", err)
		writeError(w, http.StatusBadGateway, "quiz generation failed: "+err.Error())
		return
	}
	s.putSession(sess)

	questions := make([]apiQuestion, 0, len(sess.Questions()))
	for i, q := range sess.Questions() {
		questions = append(questions, apiQuestion{Number: i + 1, Question: q.Text, Options: q.Options})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":       sess.ID(),
		"topic":         req.Topic,
		"question_type": req.Kind,
		"difficulty":    req.Difficulty,
		"questions":     questions,
	})
}

func (s *Server) apiGradeQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	sess, ok := s.getSession(quizID)
	if !ok {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}

	var in struct {
		Answers []string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(in.Answers) != len(sess.Questions()) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("expected %d answers, got %d", len(sess.Questions()), len(in.Answers)))
		return
	}

	for i, answer := range in.Answers {
		if err := sess.Submit(i, answer); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	records, err := sess.Grade()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.db.SaveAttempt(sess); err != nil {
		log.Printf("Failed to save attempt: %v", err)
	}

	score := sess.Score()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id": quizID,
		"score": map[string]interface{}{
			"correct": score.Correct,
			"total":   score.Total,
			"percent": score.Percent(),
		},
		"records": records,
	})
}

func (s *Server) apiListAttempts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	attempts, err := s.db.ListAttempts(limit)
	if err != nil {
		log.Printf("Failed to list attempts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list attempts")
		return
	}
	if attempts == nil {
		attempts = []examforge.Attempt{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}
