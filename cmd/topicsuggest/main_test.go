package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"examforge"
)

// recordingClient captures the prompt and returns a fixed reply.
type recordingClient struct {
	reply  string
	err    error
	system string
	user   string
}

func (c *recordingClient) Complete(ctx context.Context, system, user string) (string, error) {
	c.system = system
	c.user = user
	return c.reply, c.err
}

func TestSuggestTopic(t *testing.T) {
	client := &recordingClient{
		reply: `{"topic":"The Silk Road","description":"Trade routes across Asia","category":"History","difficulty":"medium"}`,
	}

	suggestion, err := suggestTopic(context.Background(), client, []string{"astronomy", "biology"}, "History")
	if err != nil {
		t.Fatalf("suggest topic: %v", err)
	}
	if suggestion.Topic != "The Silk Road" || suggestion.Category != "History" {
		t.Fatalf("suggestion = %+v", suggestion)
	}

	if !strings.Contains(client.user, "- astronomy") || !strings.Contains(client.user, "- biology") {
		t.Fatalf("prompt does not list existing topics:\n%s", client.user)
	}
	if !strings.Contains(client.user, "category: History") {
		t.Fatalf("prompt does not mention the category:\n%s", client.user)
	}
}

func TestSuggestTopicBadDifficultyFallsBack(t *testing.T) {
	client := &recordingClient{
		reply: `{"topic":"Volcanoes","description":"How volcanoes work","category":"Science","difficulty":"extreme"}`,
	}

	suggestion, err := suggestTopic(context.Background(), client, nil, "")
	if err != nil {
		t.Fatalf("suggest topic: %v", err)
	}
	if suggestion.Difficulty != string(examforge.DifficultyMedium) {
		t.Fatalf("difficulty = %q, want medium fallback", suggestion.Difficulty)
	}
}

func TestSuggestTopicErrors(t *testing.T) {
	client := &recordingClient{err: errors.New("model offline")}
	if _, err := suggestTopic(context.Background(), client, nil, ""); err == nil {
		t.Fatal("transport error not propagated")
	}

	client = &recordingClient{reply: "this is not json"}
	if _, err := suggestTopic(context.Background(), client, nil, ""); err == nil {
		t.Fatal("unparseable reply accepted")
	}

	client = &recordingClient{reply: `{"description":"no topic field"}`}
	if _, err := suggestTopic(context.Background(), client, nil, ""); err == nil {
		t.Fatal("empty topic accepted")
	}
}

func TestDistinctTopics(t *testing.T) {
	attempts := []examforge.Attempt{
		{Topic: "astronomy"},
		{Topic: "biology"},
		{Topic: "astronomy"},
		{Topic: "chemistry"},
	}

	topics := distinctTopics(attempts)
	if len(topics) != 3 {
		t.Fatalf("topics = %v", topics)
	}
	if topics[0] != "astronomy" || topics[1] != "biology" || topics[2] != "chemistry" {
		t.Fatalf("order not preserved: %v", topics)
	}
}
