package examforge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearQuizEnv blanks every variable the config reads so ambient values on the
// test machine cannot leak in.
func clearQuizEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "GROQ_MODEL", "GROQ_BASE_URL",
		"PORT", "ADDR", "QUIZ_DB", "SESSION_SECRET",
		"TEMPLATES_DIR", "RESULTS_DIR", "LOG_DIR", "VERBOSE",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigDefaults(t *testing.T) {
	clearQuizEnv(t)

	cfg := ConfigFromEnv()
	if cfg.APIKey != "" {
		t.Fatalf("default API key = %q, want empty", cfg.APIKey)
	}
	if cfg.Model != DefaultModel || cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("model/base URL defaults = %q / %q", cfg.Model, cfg.BaseURL)
	}
	if cfg.Addr != ":8180" {
		t.Fatalf("default addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "./quiz.db" || cfg.TemplatesDir != "templates" || cfg.ResultsDir != "results" || cfg.LogDir != "log" {
		t.Fatalf("default paths = %+v", cfg)
	}
	if cfg.Verbose {
		t.Fatal("verbose on by default")
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	clearQuizEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("GROQ_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("QUIZ_DB", "/tmp/other.db")
	t.Setenv("VERBOSE", "1")

	cfg := ConfigFromEnv()
	if cfg.APIKey != "gsk_test" {
		t.Fatalf("API key = %q", cfg.APIKey)
	}
	if cfg.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if !cfg.Verbose {
		t.Fatal("verbose not applied")
	}
}

func TestConfigAddrBeatsPort(t *testing.T) {
	clearQuizEnv(t)
	t.Setenv("PORT", "9000")

	cfg := ConfigFromEnv()
	if cfg.Addr != ":9000" {
		t.Fatalf("addr from PORT = %q", cfg.Addr)
	}

	t.Setenv("ADDR", "127.0.0.1:7777")
	cfg = ConfigFromEnv()
	if cfg.Addr != "127.0.0.1:7777" {
		t.Fatalf("ADDR did not win over PORT: %q", cfg.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearQuizEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "model: file-model\naddr: \":9999\"\nverbose: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Model != "file-model" || cfg.Addr != ":9999" || !cfg.Verbose {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.DBPath != "./quiz.db" {
		t.Fatalf("unrelated default lost: %q", cfg.DBPath)
	}

	// Environment wins over the file.
	t.Setenv("GROQ_MODEL", "env-model")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Model != "env-model" {
		t.Fatalf("env did not win over file: %q", cfg.Model)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearQuizEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Addr != ":8180" {
		t.Fatalf("defaults not applied: %q", cfg.Addr)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	clearQuizEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("modle: typo\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("unknown key accepted")
	} else if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("unexpected error: %v", err)
	}
}
