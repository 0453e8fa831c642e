package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Server       ServerConfig       `toml:"server"`
	Storage      StorageConfig      `toml:"storage"`
	Logging      LoggingConfig      `toml:"logging"`
	Scraper      ScraperConfig      `toml:"scraper"`
	Orchestrator OrchestratorConfig `toml:"orchestrator"`
	LLM          LLMConfig          `toml:"llm"`
	Claude       ClaudeConfig       `toml:"claude"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Enhancer     EnhancerConfig     `toml:"enhancer"`
	Maintenance  MaintenanceConfig  `toml:"maintenance"`
	WebSocket    WebSocketConfig    `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// ScraperConfig controls page fetching and extraction behavior
type ScraperConfig struct {
	UserAgent          string `toml:"user_agent"`            // User agent sent with page fetches
	RequestTimeout     string `toml:"request_timeout"`       // HTTP request timeout, e.g. "30s", parsed at service init
	MaxBodySize        int64  `toml:"max_body_size"`         // Maximum response body size in bytes
	MaxPages           int    `toml:"max_pages"`             // Safety cap on pagination traversal
	RequestDelay       string `toml:"request_delay"`         // Minimum delay between page fetches, e.g. "1s"
	MaxProductsPerPage int    `toml:"max_products_per_page"` // Cap on container-extracted products per page
	MaxImages          int    `toml:"max_images"`            // Cap on gallery images per product
}

// OrchestratorConfig controls the scrape job run loop
type OrchestratorConfig struct {
	PausePollInterval string `toml:"pause_poll_interval"` // How often a paused job re-checks its control state, e.g. "500ms"
}

// LLMConfig selects the enhancement provider
type LLMConfig struct {
	Provider string `toml:"provider"` // "claude", "gemini", or "disabled"
}

// ClaudeConfig contains Anthropic Claude API settings
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"` // e.g. "60s", parsed at service init
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// GeminiConfig contains Google Gemini API settings
type GeminiConfig struct {
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`
	Timeout     string   `toml:"timeout"`
	Temperature *float32 `toml:"temperature"`
}

// EnhancerConfig controls AI product enrichment
type EnhancerConfig struct {
	MaxTags           int `toml:"max_tags"`            // Maximum SEO tags per product
	MaxDescriptionLen int `toml:"max_description_len"` // Truncate descriptions before prompting
}

// MaintenanceConfig controls the cron-driven maintenance scheduler
type MaintenanceConfig struct {
	Enabled    bool   `toml:"enabled"`
	Schedule   string `toml:"schedule"`    // Cron schedule, e.g. "@every 10m"
	StaleAfter string `toml:"stale_after"` // Running jobs with no progress beyond this are failed
	Retention  string `toml:"retention"`   // Terminal jobs older than this are pruned
}

// WebSocketConfig contains configuration for WebSocket event streaming
type WebSocketConfig struct {
	ThrottleInterval string `toml:"throttle_interval"` // Minimum interval between progress broadcasts per job
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/merx",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		Scraper: ScraperConfig{
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeout:     "30s",
			MaxBodySize:        10 * 1024 * 1024,
			MaxPages:           10,
			RequestDelay:       "1s",
			MaxProductsPerPage: 20,
			MaxImages:          5,
		},
		Orchestrator: OrchestratorConfig{
			PausePollInterval: "500ms",
		},
		LLM: LLMConfig{
			Provider: "claude",
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Timeout:     "60s",
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			Timeout: "60s",
		},
		Enhancer: EnhancerConfig{
			MaxTags:           8,
			MaxDescriptionLen: 1000,
		},
		Maintenance: MaintenanceConfig{
			Enabled:    true,
			Schedule:   "@every 10m",
			StaleAfter: "30m",
			Retention:  "168h",
		},
		WebSocket: WebSocketConfig{
			ThrottleInterval: "250ms",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MERX_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MERX_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MERX_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("MERX_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("MERX_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MERX_LOG_OUTPUT"); output != "" {
		config.Logging.Output = strings.Split(output, ",")
	}

	// Scraper configuration
	if userAgent := os.Getenv("MERX_SCRAPER_USER_AGENT"); userAgent != "" {
		config.Scraper.UserAgent = userAgent
	}
	if maxPages := os.Getenv("MERX_SCRAPER_MAX_PAGES"); maxPages != "" {
		if mp, err := strconv.Atoi(maxPages); err == nil && mp > 0 {
			config.Scraper.MaxPages = mp
		}
	}
	if delay := os.Getenv("MERX_SCRAPER_REQUEST_DELAY"); delay != "" {
		if _, err := time.ParseDuration(delay); err == nil {
			config.Scraper.RequestDelay = delay
		}
	}

	// LLM configuration
	if provider := os.Getenv("MERX_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("MERX_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("MERX_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
