package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"examforge"
)

// TopicSuggestion is a quiz topic proposed by the model.
type TopicSuggestion struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

func main() {
	var (
		category = flag.String("category", "", "Focus on a specific category (optional)")
		dbPath   = flag.String("db", "./quiz.db", "Database path")
		apiKey   = flag.String("api-key", "", "Groq API key (or set GROQ_API_KEY env var)")
		model    = flag.String("model", "", "Model to use (default: "+examforge.DefaultModel+")")
		verbose  = flag.Bool("verbose", false, "Enable verbose output")
	)

	flag.Parse()

	_ = godotenv.Load()

	examforge.SetVerbose(*verbose)

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

	client, err := examforge.NewGroqClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create Groq client: %v", err)
	}

	db, err := examforge.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	attempts, err := db.ListAttempts(0)
	if err != nil {
		log.Fatalf("Failed to list attempts: %v", err)
	}
	topics := distinctTopics(attempts)

	fmt.Printf("📚 Found %d topics in quiz history\n", len(topics))
	for _, topic := range topics {
		fmt.Printf("  - %s\n", topic)
	}
	fmt.Println()

	fmt.Print("🎯 Asking for a fresh topic")
	if *category != "" {
		fmt.Printf(" in category: %s", *category)
	}
	fmt.Println("...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	suggestion, err := suggestTopic(ctx, client, topics, *category)
	if err != nil {
		log.Fatalf("Failed to generate topic: %v", err)
	}

	fmt.Printf("\n✅ Suggested topic:\n\n")
	fmt.Printf("Topic: %s (%s, %s)\n", suggestion.Topic, suggestion.Category, suggestion.Difficulty)
	fmt.Printf("Description: %s\n\n", suggestion.Description)
	fmt.Printf("Generate it with:\n  examforge -topic %q -difficulty %s\n", suggestion.Topic, suggestion.Difficulty)
}

// distinctTopics returns the unique attempt topics, newest first.
func distinctTopics(attempts []examforge.Attempt) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, a := range attempts {
		if !seen[a.Topic] {
			seen[a.Topic] = true
			topics = append(topics, a.Topic)
		}
	}
	return topics
}

func suggestTopic(ctx context.Context, client examforge.ChatCompleter, existing []string, category string) (*TopicSuggestion, error) {
	var prompt strings.Builder

	prompt.WriteString("Suggest ONE interesting quiz topic that would make for engaging questions.\n\n")

	if category != "" {
		prompt.WriteString(fmt.Sprintf("Focus on the category: %s\n\n", category))
	}

	if len(existing) > 0 {
		prompt.WriteString("The topic must be completely different from these already used topics:\n")
		for _, topic := range existing {
			prompt.WriteString(fmt.Sprintf("- %s\n", topic))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("Requirements:\n")
	prompt.WriteString("- Educational and engaging\n")
	prompt.WriteString("- Broad enough for 10 or more questions\n")
	prompt.WriteString("- Not overly niche\n\n")
	prompt.WriteString(`Return JSON: {"topic": "...", "description": "...", "category": "...", "difficulty": "easy|medium|hard"}`)

	const system = "You are an expert at proposing engaging quiz topics. Respond with a single JSON object."

	reply, err := client.Complete(ctx, system, prompt.String())
	if err != nil {
		return nil, err
	}

	var suggestion TopicSuggestion
	if err := json.Unmarshal([]byte(reply), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse topic suggestion: %w", err)
	}
	if suggestion.Topic == "" {
		return nil, fmt.Errorf("model returned no topic")
	}
	level, err := examforge.ParseDifficulty(suggestion.Difficulty)
	if err != nil {
		level = examforge.DifficultyMedium
	}
	suggestion.Difficulty = string(level)
	return &suggestion, nil
}
