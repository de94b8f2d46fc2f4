package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"examforge"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Quiz topic (required)")
		questionType = flag.String("type", "multiple_choice", "Question type (multiple_choice, fill_blank)")
		difficulty   = flag.String("difficulty", "medium", "Difficulty level (easy, medium, hard)")
		numQuestions = flag.Int("questions", examforge.DefaultQuestions, "Number of questions to generate")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "Groq API key (or set GROQ_API_KEY env var)")
		model        = flag.String("model", "", "Model to use (default: "+examforge.DefaultModel+")")
		playMode     = flag.Bool("play", false, "Play the quiz interactively")
		saveCSV      = flag.Bool("save-csv", false, "Save graded results as CSV (requires -play)")
		savePDF      = flag.Bool("save-pdf", false, "Save graded results as PDF (requires -play)")
		resultsDir   = flag.String("results-dir", "results", "Directory for exported result files")
		dbPath       = flag.String("db", "", "SQLite database to record the attempt in (requires -play)")
		logDir       = flag.String("log-dir", "log", "Directory for LLM interaction logs")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	_ = godotenv.Load()

	examforge.SetVerbose(*verbose)

	if *topic == "" {
		log.Fatal("Topic is required. Use -topic flag.")
	}

	cfg := examforge.ConfigFromEnv()
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *model != "" {
		cfg.Model = *model
	}
	if cfg.APIKey == "" {
		log.Fatal("Groq API key is required. Use -api-key flag or set GROQ_API_KEY environment variable.")
	}

	kind, err := examforge.ParseKind(*questionType)
	if err != nil {
		log.Fatalf("Invalid question type: %v", err)
	}
	level, err := examforge.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("Invalid difficulty: %v", err)
	}

	if !*playMode && (*saveCSV || *savePDF || *dbPath != "") {
		log.Fatal("The -save-csv, -save-pdf, and -db flags require -play.")
	}

	generator, err := examforge.NewGroqGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	req := examforge.GenerationRequest{
		Topic:        *topic,
		Kind:         kind,
		Difficulty:   level,
		NumQuestions: examforge.ClampQuestionCount(*numQuestions),
	}

	sess := examforge.NewSession()

	if logger, err := examforge.NewLLMLogger(*logDir, sess.ID(), req); err != nil {
		log.Printf("Failed to create LLM logger: %v", err)
	} else {
		generator.SetLogger(logger)
		defer logger.Close()
	}

	if *playMode {
		fmt.Printf("🎯 Starting interactive quiz on: %s\n", req.Topic)
		fmt.Printf("📝 Questions: %d, Type: %s, Difficulty: %s\n", req.NumQuestions, req.Kind.Label(), req.Difficulty)
		fmt.Println("⏳ Generating questions... (this may take a moment)")
		fmt.Println()
	} else if *verbose {
		log.Printf("Starting quiz generation for topic: %s", *topic)
		log.Printf("Target questions: %d, Type: %s, Difficulty: %s", req.NumQuestions, req.Kind, req.Difficulty)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := sess.Generate(ctx, generator, req); err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}

	if *playMode {
		records := playQuiz(sess)

		if *saveCSV {
			path, err := examforge.SaveResultsCSV(*resultsDir, records)
			if err != nil {
				log.Fatalf("Failed to save CSV: %v", err)
			}
			fmt.Printf("💾 Results saved to: %s\n", path)
		}
		if *savePDF {
			path, err := examforge.SaveResultsPDF(*resultsDir, records)
			if err != nil {
				log.Fatalf("Failed to save PDF: %v", err)
			}
			fmt.Printf("📄 Results saved to: %s\n", path)
		}
		if *dbPath != "" {
			db, err := examforge.OpenDB(*dbPath)
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer db.CloseDB()
			if err := db.CreateTables(); err != nil {
				log.Fatalf("Failed to create tables: %v", err)
			}
			id, err := db.SaveAttempt(sess)
			if err != nil {
				log.Fatalf("Failed to save attempt: %v", err)
			}
			fmt.Printf("🧾 Attempt recorded: %s\n", id)
		}
		return
	}

	quiz := examforge.Quiz{
		ID:         sess.ID(),
		Topic:      req.Topic,
		Kind:       req.Kind,
		Difficulty: req.Difficulty,
		Questions:  sess.Questions(),
		CreatedAt:  time.Now(),
	}

	output, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}

	if *verbose {
		log.Printf("Quiz generation completed successfully!")
	}
}

// playQuiz walks the user through every question on stdin, then grades the
// whole attempt and prints the results.
func playQuiz(sess *examforge.Session) []examforge.AnswerRecord {
	scanner := bufio.NewScanner(os.Stdin)
	questions := sess.Questions()
	labels := []string{"A", "B", "C", "D"}

	for i, question := range questions {
		fmt.Printf("Question %d/%d:\n", i+1, len(questions))
		fmt.Printf("%s\n\n", question.Text)

		var answer string
		if question.Kind == examforge.KindMultipleChoice {
			for j, option := range question.Options {
				fmt.Printf("%s) %s\n", labels[j], option)
			}
			fmt.Println()

			for {
				fmt.Print("Your answer (A/B/C/D): ")
				scanner.Scan()
				input := strings.ToUpper(strings.TrimSpace(scanner.Text()))
				idx := strings.Index("ABCD", input)
				if len(input) == 1 && idx >= 0 && idx < len(question.Options) {
					answer = question.Options[idx]
					break
				}
				fmt.Println("Please enter A, B, C, or D")
			}
		} else {
			fmt.Print("Your answer: ")
			scanner.Scan()
			answer = scanner.Text()
		}

		if err := sess.Submit(i, answer); err != nil {
			log.Fatalf("Failed to record answer: %v", err)
		}
		fmt.Println()
	}

	records, err := sess.Grade()
	if err != nil {
		log.Fatalf("Failed to grade quiz: %v", err)
	}

	fmt.Println(strings.Repeat("─", 50))
	fmt.Println("🎉 Quiz completed!")
	fmt.Println()

	for _, r := range records {
		if r.Correct {
			fmt.Printf("✅ Question %d: Correct!\n", r.Number)
		} else {
			fmt.Printf("❌ Question %d: Incorrect. The correct answer is %s\n", r.Number, r.Question.CorrectAnswer)
		}
	}

	score := sess.Score()
	fmt.Printf("\n📊 Final Score: %s\n", score)

	percentage := score.Percent()
	if percentage >= 80 {
		fmt.Println("🌟 Excellent work!")
	} else if percentage >= 60 {
		fmt.Println("👍 Good job!")
	} else {
		fmt.Println("📚 Keep studying!")
	}

	return records
}
