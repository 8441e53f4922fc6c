// Package config loads service configuration from the environment.  A .env
// file is honored when present; real environment variables win.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Assessment strategy names accepted by ASSESSOR.
const (
	AssessorRules  = "rules"
	AssessorOpenAI = "openai"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port        string
	DatabaseURL string

	// Assessor selects the triage assessment strategy, once per deployment.
	Assessor    string
	OpenAIKey   string
	OpenAIModel string
	LLMTimeout  time.Duration

	// NotifyChannel is the Postgres channel escalations are announced on.
	NotifyChannel string
}

// Load reads the environment and validates strategy selection.  An unknown
// assessor name is a configuration error and fatal at startup, not a
// per-turn condition.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully set already.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Assessor:      getEnv("ASSESSOR", AssessorOpenAI),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:    15 * time.Second,
		NotifyChannel: getEnv("NOTIFY_CHANNEL", "helpline_escalations"),
	}

	if raw := os.Getenv("LLM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", raw, err)
		}
		cfg.LLMTimeout = d
	}

	switch cfg.Assessor {
	case AssessorRules, AssessorOpenAI:
	default:
		return nil, fmt.Errorf("unsupported assessment strategy %q (want %q or %q)",
			cfg.Assessor, AssessorRules, AssessorOpenAI)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
