package examforge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// resultColumns is the CSV export header, in row order.
var resultColumns = []string{
	"question_number",
	"question",
	"question_type",
	"user_answer",
	"correct_answer",
	"is_correct",
	"options",
}

// WriteResultsCSV writes one row per answer record in question order. The
// options column holds a JSON array string, empty for fill-in-the-blank.
func WriteResultsCSV(w io.Writer, records []AnswerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		optionsJSON, err := OptionsToJSON(r.Question.Options)
		if err != nil {
			return err
		}
		row := []string{
			strconv.Itoa(r.Number),
			r.Question.Text,
			r.Question.Kind.Label(),
			r.UserAnswer,
			r.Question.CorrectAnswer,
			strconv.FormatBool(r.Correct),
			optionsJSON,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.Number, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResultsPDF renders the records as a paginated text report: a title,
// then one block per question with the submitted and correct answers. A new
// page starts whenever the vertical cursor runs low.
func WriteResultsPDF(w io.Writer, records []AnswerRecord) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()

	y := 50.0
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(50, y, "Quiz Results")
	y += 30

	pdf.SetFont("Helvetica", "", 12)
	for _, r := range records {
		if y > pageHeight-100 {
			pdf.AddPage()
			y = 50
		}

		pdf.Text(50, y, fmt.Sprintf("Q%d: %s", r.Number, r.Question.Text))
		y += 20
		if r.Question.Kind == KindMultipleChoice {
			pdf.Text(70, y, "Options: "+strings.Join(r.Question.Options, "; "))
			y += 20
		}
		pdf.Text(70, y, "Your Answer: "+r.UserAnswer)
		y += 20
		pdf.Text(70, y, "Correct Answer: "+r.Question.CorrectAnswer)
		y += 20
		result := "correct"
		if !r.Correct {
			result = "incorrect"
		}
		pdf.Text(70, y, "Result: "+result)
		y += 30
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SaveResultsCSV writes the records to a timestamped file under dir, creating
// the directory when needed, and returns the file path.
func SaveResultsCSV(dir string, records []AnswerRecord) (string, error) {
	return saveExport(dir, "csv", records, WriteResultsCSV)
}

// SaveResultsPDF is the PDF counterpart of SaveResultsCSV.
func SaveResultsPDF(dir string, records []AnswerRecord) (string, error) {
	return saveExport(dir, "pdf", records, WriteResultsPDF)
}

func saveExport(dir, ext string, records []AnswerRecord, write func(io.Writer, []AnswerRecord) error) (string, error) {
	if dir == "" {
		dir = "results"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	name := fmt.Sprintf("quiz_results_%s.%s", time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file, records); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
