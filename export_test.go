package examforge

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleRecords() []AnswerRecord {
	return []AnswerRecord{
		{
			Number: 1,
			Question: Question{
				Kind:          KindMultipleChoice,
				Text:          "Which planet is known as the Red Planet?",
				Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
				CorrectAnswer: "Mars",
			},
			UserAnswer: "Mars",
			Correct:    true,
		},
		{
			Number: 2,
			Question: Question{
				Kind:          KindFillBlank,
				Text:          "The capital of France is _____.",
				CorrectAnswer: "Paris",
			},
			UserAnswer: "London",
			Correct:    false,
		},
	}
}

func TestWriteResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultsCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want header + 2", len(rows))
	}

	wantHeader := []string{"question_number", "question", "question_type", "user_answer", "correct_answer", "is_correct", "options"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v", rows[0])
	}

	mcq := rows[1]
	if mcq[0] != "1" || mcq[2] != "Multiple Choice" || mcq[5] != "true" {
		t.Fatalf("mcq row = %v", mcq)
	}
	if !strings.Contains(mcq[6], `"Mars"`) {
		t.Fatalf("options column = %q", mcq[6])
	}

	blank := rows[2]
	if blank[2] != "Fill in the Blank" || blank[3] != "London" || blank[5] != "false" {
		t.Fatalf("fill-blank row = %v", blank)
	}
	if blank[6] != "[]" {
		t.Fatalf("fill-blank options column = %q, want empty JSON array", blank[6])
	}
}

func TestSaveResultsCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := SaveResultsCSV(dir, sampleRecords())
	if err != nil {
		t.Fatalf("save csv: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "quiz_results_") || !strings.HasSuffix(name, ".csv") {
		t.Fatalf("unexpected file name %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse saved csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("saved row count = %d", len(rows))
	}
}

func TestWriteResultsPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultsPDF(&buf, sampleRecords()); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
}

func TestWriteResultsPDFManyRecords(t *testing.T) {
	records := make([]AnswerRecord, 40)
	for i := range records {
		records[i] = AnswerRecord{
			Number: i + 1,
			Question: Question{
				Kind:          KindMultipleChoice,
				Text:          fmt.Sprintf("Question number %d?", i+1),
				Options:       []string{"A", "B", "C", "D"},
				CorrectAnswer: "A",
			},
			UserAnswer: "B",
		}
	}

	var buf bytes.Buffer
	if err := WriteResultsPDF(&buf, records); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}

func TestSaveResultsPDF(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveResultsPDF(dir, sampleRecords())
	if err != nil {
		t.Fatalf("save pdf: %v", err)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("unexpected file name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("saved file is not a PDF")
	}
}
