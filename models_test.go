package examforge

import "testing"

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"mcq", KindMultipleChoice, false},
		{"MCQ", KindMultipleChoice, false},
		{"multiple_choice", KindMultipleChoice, false},
		{"Multiple Choice", KindMultipleChoice, false},
		{"fill", KindFillBlank, false},
		{"fill_blank", KindFillBlank, false},
		{"Fill in the Blank", KindFillBlank, false},
		{"  mcq  ", KindMultipleChoice, false},
		{"essay", "", true},
		{"", "", true},
	}

	for _, c := range cases {
		got, err := ParseKind(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseKind(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	cases := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"Easy", DifficultyEasy, false},
		{"MEDIUM", DifficultyMedium, false},
		{"hard", DifficultyHard, false},
		{"", DifficultyMedium, false},
		{"brutal", "", true},
	}

	for _, c := range cases {
		got, err := ParseDifficulty(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDifficulty(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDifficulty(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKindLabel(t *testing.T) {
	if got := KindMultipleChoice.Label(); got != "Multiple Choice" {
		t.Errorf("multiple choice label = %q", got)
	}
	if got := KindFillBlank.Label(); got != "Fill in the Blank" {
		t.Errorf("fill blank label = %q", got)
	}
}

func TestClampQuestionCount(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultQuestions},
		{-3, DefaultQuestions},
		{1, 1},
		{7, 7},
		{20, 20},
		{50, MaxQuestions},
	}
	for _, c := range cases {
		if got := ClampQuestionCount(c.in); got != c.want {
			t.Errorf("ClampQuestionCount(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestScoreString(t *testing.T) {
	score := Score{Correct: 2, Total: 3}
	if got := score.String(); got != "2/3 (66.7%)" {
		t.Errorf("score string = %q", got)
	}
	var empty Score
	if got := empty.Percent(); got != 0 {
		t.Errorf("empty score percent = %v, want 0", got)
	}
}
