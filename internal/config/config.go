package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath     string
	ProfileStorePath string

	// LLM backends
	OllamaURL    string
	GeminiAPIKey string
	LLMTimeout   time.Duration

	// Minimum number of matching recipes before the AI path is attempted.
	MinRecipesForAI int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("NUTRIPLAN_DB_PATH")
	if dbPath == "" {
		dbPath = "data/nutriplan.db"
	}

	profilePath := os.Getenv("NUTRIPLAN_PROFILE_PATH")
	if profilePath == "" {
		profilePath = "data/profiles"
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	// Optional: only required when a gemini model is requested.
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	timeout := 120 * time.Second
	if raw := os.Getenv("LLM_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS value %q", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	minRecipes := 10
	if raw := os.Getenv("NUTRIPLAN_MIN_RECIPES_FOR_AI"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid NUTRIPLAN_MIN_RECIPES_FOR_AI value %q", raw)
		}
		minRecipes = n
	}

	return &Config{
		DatabasePath:     dbPath,
		ProfileStorePath: profilePath,
		OllamaURL:        ollamaURL,
		GeminiAPIKey:     geminiAPIKey,
		LLMTimeout:       timeout,
		MinRecipesForAI:  minRecipes,
	}, nil
}
