package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"examforge"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

const sessionName = "quiz-session"

// Server holds everything the handlers need. Generated quizzes live in an
// in-memory registry keyed by quiz ID; the browser cookie only carries the ID.
type Server struct {
	cfg       examforge.Config
	client    examforge.ChatCompleter
	db        *examforge.DB
	store     *sessions.CookieStore
	templates map[string]*template.Template

	mu      sync.Mutex
	quizzes map[string]*examforge.Session
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := examforge.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	examforge.SetVerbose(cfg.Verbose)

	if cfg.APIKey == "" {
		log.Fatal("GROQ_API_KEY environment variable is required")
	}

	client, err := examforge.NewGroqClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create Groq client: %v", err)
	}

	db, err := examforge.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	templates, err := loadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	server := &Server{
		cfg:       cfg,
		client:    client,
		db:        db,
		store:     sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		templates: templates,
		quizzes:   make(map[string]*examforge.Session),
	}

	log.Printf("Starting server on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, server.routes()))
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/quiz/new", s.handleNewQuiz)
	r.Get("/quiz/{quizID}", s.handleQuiz)
	r.Post("/quiz/{quizID}/submit", s.handleSubmit)
	r.Get("/quiz/{quizID}/results", s.handleResults)
	r.Get("/quiz/{quizID}/export/csv", s.handleExportCSV)
	r.Get("/quiz/{quizID}/export/pdf", s.handleExportPDF)
	r.Get("/attempts/{attemptID}", s.handleAttempt)

	r.Route("/api", func(ar chi.Router) {
		ar.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		ar.Post("/quiz", s.apiGenerateQuiz)
		ar.Post("/quiz/{quizID}/grade", s.apiGradeQuiz)
		ar.Get("/attempts", s.apiListAttempts)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}

// Load each page template together with base.html so ExecuteTemplate can
// render the shared layout around the page's content block.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"pct": func(correct, total int) float64 {
			if total == 0 {
				return 0
			}
			return float64(correct) / float64(total) * 100
		},
		"printf": fmt.Sprintf,
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"home", "quiz", "results", "attempt"} {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(
			filepath.Join(dir, "base.html"),
			filepath.Join(dir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// generate runs one quiz generation with a fresh generator so the LLM log for
// this run ends up in its own file named after the session ID.
func (s *Server) generate(r *http.Request, sess *examforge.Session, req examforge.GenerationRequest) error {
	gen := examforge.NewGenerator(s.client)
	if logger, err := examforge.NewLLMLogger(s.cfg.LogDir, sess.ID(), req); err != nil {
		log.Printf("Failed to create LLM logger: %v", err)
	} else {
		gen.SetLogger(logger)
		defer logger.Close()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()
	return sess.Generate(ctx, gen, req)
}

func (s *Server) putSession(sess *examforge.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[sess.ID()] = sess
}

func (s *Server) getSession(id string) (*examforge.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.quizzes[id]
	return sess, ok
}
