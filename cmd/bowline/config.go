package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Host      string
	Port      string
	AgentName string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json

	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GeminiKey    string

	// Generation defaults
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Host:         getEnvOrDefault("HOST", "0.0.0.0"),
		Port:         getEnvOrDefault("PORT", "8000"),
		AgentName:    getEnvOrDefault("AGENT_NAME", "bowline"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "text"),
		Provider:     getEnvOrDefault("PROVIDER", "anthropic"),
		Model:        os.Getenv("MODEL"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		SystemPrompt: os.Getenv("SYSTEM_PROMPT"),
		MaxTokens:    getEnvIntOrDefault("MAX_TOKENS", 4096),
		Temperature:  getEnvFloatOrDefault("TEMPERATURE", 0.7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected provider's API key is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
