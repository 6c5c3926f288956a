package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where flowstate stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// JWTSecret is the HS256 secret shared with the identity provider.
	JWTSecret string
	// RedisURL enables the shared L2 preferences cache when set.
	RedisURL string

	// Rate limiting, applied per workspace.
	RateLimitRPS   float64 // FLOWSTATE_RATE_LIMIT_RPS (default: 5)
	RateLimitBurst int     // FLOWSTATE_RATE_LIMIT_BURST (default: 10)

	// AI Configuration
	AIEnabled       bool   // FLOWSTATE_AI_ENABLED
	AIOpenAIAPIKey  string // FLOWSTATE_AI_OPENAI_API_KEY
	AIOpenAIBaseURL string // FLOWSTATE_AI_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	AILLMModel      string // FLOWSTATE_AI_LLM_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIOpenAIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the settings that are never passed as flags.
// Empty values leave defaults in place.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("FLOWSTATE_AI_ENABLED") == "true"
	p.AIOpenAIAPIKey = os.Getenv("FLOWSTATE_AI_OPENAI_API_KEY")
	p.AIOpenAIBaseURL = getEnvOrDefault("FLOWSTATE_AI_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.AILLMModel = getEnvOrDefault("FLOWSTATE_AI_LLM_MODEL", "gpt-4o-mini")

	if p.JWTSecret == "" {
		p.JWTSecret = os.Getenv("FLOWSTATE_JWT_SECRET")
	}
	if p.RedisURL == "" {
		p.RedisURL = os.Getenv("FLOWSTATE_REDIS_URL")
	}

	p.RateLimitRPS = 5
	if v, err := strconv.ParseFloat(os.Getenv("FLOWSTATE_RATE_LIMIT_RPS"), 64); err == nil && v > 0 {
		p.RateLimitRPS = v
	}
	p.RateLimitBurst = 10
	if v, err := strconv.Atoi(os.Getenv("FLOWSTATE_RATE_LIMIT_BURST")); err == nil && v > 0 {
		p.RateLimitBurst = v
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Mode == "prod" && p.JWTSecret == "" {
		return errors.New("jwt secret is required in prod mode")
	}

	if p.Driver == "sqlite" {
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			dbFile := fmt.Sprintf("flowstate_%s.db", p.Mode)
			p.DSN = filepath.Join(dataDir, dbFile)
		}
	}

	return nil
}
