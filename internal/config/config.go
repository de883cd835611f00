package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI and server need to run.
// Values resolve in order: defaults, optional YAML file, environment.
type Config struct {
	GitHubToken   string `yaml:"github_token"`
	GitHubBaseURL string `yaml:"github_base_url"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	Addr            string   `yaml:"addr"`
	AllowOrigins    []string `yaml:"allow_origins"`
	RateLimitPerMin int      `yaml:"rate_limit_per_min"`

	PerPage   int    `yaml:"per_page"`
	OutputDir string `yaml:"output_dir"`

	RefreshCron       string   `yaml:"refresh_cron"`
	RefreshCategories []string `yaml:"refresh_categories"`
	RefreshDays       int      `yaml:"refresh_days"`

	FeishuWebhook string `yaml:"feishu_webhook"`
}

// Defaults returns a config with sane defaults for local use.
func Defaults() *Config {
	return &Config{
		GeminiModel:       "gemini-1.5-flash",
		Addr:              ":8080",
		AllowOrigins:      []string{"*"},
		RateLimitPerMin:   60,
		PerPage:           30,
		OutputDir:         "briefings",
		RefreshCategories: []string{"newly_created", "hidden_gems"},
		RefreshDays:       7,
	}
}

// Load builds the effective config. path may be empty (no YAML file).
// A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	setString(&c.GitHubToken, "GITHUB_TOKEN")
	setString(&c.GitHubBaseURL, "GITHUB_BASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.Addr, "SCOUT_ADDR")
	setString(&c.OutputDir, "SCOUT_OUTPUT_DIR")
	setString(&c.RefreshCron, "SCOUT_REFRESH_CRON")
	setString(&c.FeishuWebhook, "FEISHU_WEBHOOK")
	setInt(&c.PerPage, "SCOUT_PER_PAGE")
	setInt(&c.RateLimitPerMin, "SCOUT_RATE_LIMIT_PER_MIN")
	setInt(&c.RefreshDays, "SCOUT_REFRESH_DAYS")
	setList(&c.AllowOrigins, "SCOUT_ALLOW_ORIGINS")
	setList(&c.RefreshCategories, "SCOUT_REFRESH_CATEGORIES")
}

// Validate rejects configs the rest of the system cannot work with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("per_page must be in 1..100, got %d", c.PerPage)
	}
	if c.RateLimitPerMin < 1 {
		return fmt.Errorf("rate_limit_per_min must be positive, got %d", c.RateLimitPerMin)
	}
	if c.RefreshDays < 1 || c.RefreshDays > 30 {
		return fmt.Errorf("refresh_days must be in 1..30, got %d", c.RefreshDays)
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("gemini_model must not be empty")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
