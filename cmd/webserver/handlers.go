package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"examforge"

	"github.com/go-chi/chi/v5"
)

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates[name].ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	attempts, err := s.db.ListAttempts(20)
	if err != nil {
		log.Printf("Failed to list attempts: %v", err)
		http.Error(w, "Failed to list attempts", http.StatusInternalServerError)
		return
	}

	// An unfinished quiz from this browser gets a resume link.
	var activeQuiz string
	cookie, _ := s.store.Get(r, sessionName)
	if id, ok := cookie.Values["quiz_id"].(string); ok {
		if sess, found := s.getSession(id); found && sess.State() != examforge.StateGraded {
			activeQuiz = id
		}
	}

	s.render(w, "home", map[string]interface{}{
		"Attempts":     attempts,
		"ActiveQuiz":   activeQuiz,
		"Kinds":        []examforge.Kind{examforge.KindMultipleChoice, examforge.KindFillBlank},
		"Difficulties": examforge.Difficulties(),
	})
}

func (s *Server) handleNewQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	topic := strings.TrimSpace(r.FormValue("topic"))
	if topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}
	kind, err := examforge.ParseKind(r.FormValue("question_type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	difficulty, err := examforge.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	numQuestions, err := strconv.Atoi(r.FormValue("num_questions"))
	if err != nil {
		numQuestions = examforge.DefaultQuestions
	}

	req := examforge.GenerationRequest{
		Topic:        topic,
		Kind:         kind,
		Difficulty:   difficulty,
		NumQuestions: examforge.ClampQuestionCount(numQuestions),
	}

	sess := examforge.NewSession()
	if err := s.generate(r, sess, req); err != nil {
		log.Printf("Quiz generation failed: %v", err)
		http.Error(w, "Failed to generate quiz: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.putSession(sess)

	cookie, _ := s.store.Get(r, sessionName)
	cookie.Values["quiz_id"] = sess.ID()
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}

	http.Redirect(w, r, "/quiz/"+sess.ID(), http.StatusSeeOther)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	sess, ok := s.getSession(quizID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if sess.State() == examforge.StateGraded {
		http.Redirect(w, r, "/quiz/"+quizID+"/results", http.StatusSeeOther)
		return
	}

	req := sess.Request()
	s.render(w, "quiz", map[string]interface{}{
		"QuizID":     quizID,
		"Topic":      req.Topic,
		"KindLabel":  req.Kind.Label(),
		"Difficulty": req.Difficulty,
		"Questions":  sess.Questions(),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	sess, ok := s.getSession(quizID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	for i := range sess.Questions() {
		answer := r.FormValue(fmt.Sprintf("answer_%d", i))
		if answer == "" {
			http.Error(w, fmt.Sprintf("Question %d is unanswered", i+1), http.StatusBadRequest)
			return
		}
		if err := sess.Submit(i, answer); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if _, err := sess.Grade(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.db.SaveAttempt(sess); err != nil {
		log.Printf("Failed to save attempt: %v", err)
	}

	http.Redirect(w, r, "/quiz/"+quizID+"/results", http.StatusSeeOther)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	sess, ok := s.getSession(quizID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	records, err := sess.Grade()
	if err != nil {
		http.Redirect(w, r, "/quiz/"+quizID, http.StatusSeeOther)
		return
	}

	s.render(w, "results", map[string]interface{}{
		"QuizID":  quizID,
		"Topic":   sess.Request().Topic,
		"Records": records,
		"Score":   sess.Score(),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", "text/csv", examforge.WriteResultsCSV)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "pdf", "application/pdf", examforge.WriteResultsPDF)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []examforge.AnswerRecord) error) {
	quizID := chi.URLParam(r, "quizID")
	sess, ok := s.getSession(quizID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	records, err := sess.Grade()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := fmt.Sprintf("quiz_results_%s.%s", time.Now().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := write(w, records); err != nil {
		log.Printf("Export to %s failed: %v", ext, err)
	}
}

func (s *Server) handleAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")
	attempt, err := s.db.GetAttempt(attemptID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	answers, err := s.db.GetAttemptAnswers(attemptID)
	if err != nil {
		log.Printf("Failed to get attempt answers: %v", err)
		http.Error(w, "Failed to get attempt answers", http.StatusInternalServerError)
		return
	}

	type answerView struct {
		examforge.AttemptAnswer
		OptionList []string
	}
	views := make([]answerView, 0, len(answers))
	for _, a := range answers {
		options, err := examforge.JSONToOptions(a.Options)
		if err != nil {
			log.Printf("Bad options JSON in attempt %s: %v", attemptID, err)
		}
		views = append(views, answerView{AttemptAnswer: a, OptionList: options})
	}

	s.render(w, "attempt", map[string]interface{}{
		"Attempt": attempt,
		"Answers": views,
	})
}
