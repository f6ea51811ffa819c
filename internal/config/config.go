package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all triage configuration.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Engine   EngineConfig
	Output   OutputConfig
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr     string
	LogLevel string
}

// ProviderConfig holds alternate-analysis-provider settings.
type ProviderConfig struct {
	Name     string
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// EngineConfig holds triage engine settings.
type EngineConfig struct {
	MaxLines int // trailing-lines cap applied before analysis
}

// OutputConfig holds CLI output destination settings.
type OutputConfig struct {
	Format     string // "stdout" or "webhook"
	Pretty     bool
	WebhookURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:     getenv("TRIAGE_ADDR", ":8000"),
			LogLevel: getenv("TRIAGE_LOG_LEVEL", "info"),
		},
		Provider: ProviderConfig{
			Name:     getenv("TRIAGE_PROVIDER", "mistral"),
			APIKey:   os.Getenv("TRIAGE_API_KEY"),
			Endpoint: os.Getenv("TRIAGE_ENDPOINT"),
			Model:    getenv("TRIAGE_MODEL", "mistral-tiny"),
			Timeout:  getenvDuration("TRIAGE_PROVIDER_TIMEOUT", 30*time.Second),
		},
		Engine: EngineConfig{
			MaxLines: getenvInt("TRIAGE_MAX_LINES", 1000),
		},
		Output: OutputConfig{
			Format:     getenv("TRIAGE_OUTPUT", "stdout"),
			Pretty:     getenvBool("TRIAGE_OUTPUT_PRETTY", false),
			WebhookURL: os.Getenv("TRIAGE_WEBHOOK_URL"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
