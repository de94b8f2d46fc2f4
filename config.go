package examforge

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config collects everything the binaries need to run. Values come from
// defaults, then an optional YAML file, then environment variables, in that
// precedence order (environment wins).
type Config struct {
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	BaseURL       string `yaml:"base_url"`
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	SessionSecret string `yaml:"session_secret"`
	TemplatesDir  string `yaml:"templates_dir"`
	ResultsDir    string `yaml:"results_dir"`
	LogDir        string `yaml:"log_dir"`
	Verbose       bool   `yaml:"verbose"`
}

// ConfigFromEnv builds a config from environment variables with defaults for
// everything except the API key.
func ConfigFromEnv() Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// LoadConfig reads the optional YAML config file at path and overlays the
// environment on top. A missing file is not an error; an empty path skips the
// file entirely.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Model:         DefaultModel,
		BaseURL:       DefaultBaseURL,
		Addr:          ":8180",
		DBPath:        "./quiz.db",
		SessionSecret: "change-me-session-secret",
		TemplatesDir:  "templates",
		ResultsDir:    "results",
		LogDir:        "log",
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setIfEnv(&c.APIKey, "GROQ_API_KEY")
	setIfEnv(&c.Model, "GROQ_MODEL")
	setIfEnv(&c.BaseURL, "GROQ_BASE_URL")
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	setIfEnv(&c.Addr, "ADDR")
	setIfEnv(&c.DBPath, "QUIZ_DB")
	setIfEnv(&c.SessionSecret, "SESSION_SECRET")
	setIfEnv(&c.TemplatesDir, "TEMPLATES_DIR")
	setIfEnv(&c.ResultsDir, "RESULTS_DIR")
	setIfEnv(&c.LogDir, "LOG_DIR")
	if v := os.Getenv("VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verbose = b
		}
	}
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
