package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// LLM (Gemini)
	GeminiAPIKey    string
	LLMExtractModel string
	LLMChatModel    string

	// Market data
	QuoteCacheMinutes int
	MaxTickers        int

	// Database (optional; empty DB_NAME disables project storage)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:         envInt("API_PORT", 8080),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		LLMExtractModel: envStr("LLM_EXTRACT_MODEL", ""),
		LLMChatModel:    envStr("LLM_CHAT_MODEL", ""),

		QuoteCacheMinutes: envInt("QUOTE_CACHE_MINUTES", 15),
		MaxTickers:        envInt("MAX_TICKERS", 10),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", ""),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT %d is out of range", c.APIPort))
	}
	if c.DBName != "" && c.DBUser == "" {
		errs = append(errs, "DB_USER is required when DB_NAME is set")
	}

	if c.GeminiAPIKey == "" {
		fmt.Println("[WARN] GEMINI_API_KEY not set — ticker extraction falls back to regex, chat is disabled")
	}
	if c.DBName == "" {
		fmt.Println("[WARN] DB_NAME not set — project storage disabled")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Comps Spreader API Configuration ===")
	fmt.Printf("Port: %d\n", c.APIPort)
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Printf("Authentication: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Println("--------------------------------------")
	fmt.Printf("LLM: %s\n", boolLabel(c.GeminiAPIKey != "", "configured", "disabled (regex extraction only)"))
	fmt.Printf("Quote cache: %d minutes\n", c.QuoteCacheMinutes)
	fmt.Printf("Max tickers per request: %d\n", c.MaxTickers)
	fmt.Println("--------------------------------------")
	if c.DBName != "" {
		fmt.Printf("Project storage: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	} else {
		fmt.Println("Project storage: disabled")
	}
	fmt.Println("======================================")
}

// ProjectsEnabled reports whether a database is configured for project
// storage.
func (c *Config) ProjectsEnabled() bool {
	return c.DBName != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
