package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	LLM         LLMConfig
	Analysis    AnalysisConfig
	GitHub      GitHubConfig
	History     HistoryConfig
	Placeholder PlaceholderConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	configDir   string // Internal: Directory where config was loaded from
}

// LLMConfig holds the OpenAI-compatible chat completion endpoint settings
type LLMConfig struct {
	Provider string        // Informational provider name (groq, openai, ...)
	APIKey   string        // Bearer credential; empty means the service is misconfigured
	BaseURL  string        // OpenAI-compatible base URL
	Model    string        // Chat model used for both analysis and review
	Timeout  time.Duration // Per-request timeout

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// AnalysisConfig holds the sampling parameters of the two LLM stages
type AnalysisConfig struct {
	AnalyzeTemperature float64
	AnalyzeMaxTokens   int
	ReviewTemperature  float64
	ReviewMaxTokens    int

	// EnforceThreshold recomputes the review verdict locally instead of trusting the model
	EnforceThreshold bool
	PassThreshold    int
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token          string        // Optional personal access token
	APIURL         string        // GitHub API base URL
	RequestTimeout time.Duration // Request timeout for GitHub API
}

// HistoryConfig configures the capped recent-analyses log
type HistoryConfig struct {
	SlotKey    string // Key the history list is stored under
	Capacity   int    // Maximum number of retained items
	InputLimit int    // Maximum number of input characters kept per item
}

// PlaceholderConfig configures the simulated issue and pull request metadata
type PlaceholderConfig struct {
	Repo      string // Repository label put on placeholder issues
	PRBaseURL string // Base URL the placeholder pull request number is appended to
}

// ServerConfig holds configuration for the HTTP API
type ServerConfig struct {
	Addr            string        // Listen address
	Mode            string        // gin mode: debug, release or test
	ReadTimeout     time.Duration // Maximum duration for reading the request
	WriteTimeout    time.Duration // Maximum duration before timing out writes of the response
	ShutdownTimeout time.Duration // Grace period for in-flight requests on shutdown
	AllowedOrigins  []string      // CORS origins; "*" allows any
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	CacheSize       int           // Cache size in KiB
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		LLM:         LLMConfig{},
		Analysis:    AnalysisConfig{},
		GitHub:      GitHubConfig{},
		History:     HistoryConfig{},
		Placeholder: PlaceholderConfig{},
		Server:      ServerConfig{},
		Database:    DatabaseConfig{},
		Logging:     LoggingConfig{},
	}
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}

// HasLLMCredential reports whether an API key for the chat endpoint is configured
func (c *Config) HasLLMCredential() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}

// Validate checks if the configuration is valid.
// A missing LLM credential is not a validation error: the service starts and
// reports the misconfiguration per request.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return fmt.Errorf("LLM config: %w", err)
	}

	if err := c.validateAnalysis(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.validateHistory(); err != nil {
		return fmt.Errorf("history config: %w", err)
	}

	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if _, err := url.ParseRequestURI(c.LLM.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.LLM.BaseURL, err)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.AnalyzeMaxTokens <= 0 || c.Analysis.ReviewMaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}

	if c.Analysis.AnalyzeTemperature < 0 || c.Analysis.ReviewTemperature < 0 {
		return fmt.Errorf("temperature cannot be negative")
	}

	if c.Analysis.PassThreshold < 0 || c.Analysis.PassThreshold > 100 {
		return fmt.Errorf("pass threshold must be between 0 and 100")
	}

	return nil
}

func (c *Config) validateHistory() error {
	if c.History.SlotKey == "" {
		return fmt.Errorf("slot key cannot be empty")
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}

	if c.History.InputLimit <= 0 {
		return fmt.Errorf("input limit must be positive")
	}

	return nil
}

func (c *Config) validateServer() error {
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode: %s", c.Server.Mode)
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Database.Path != ":memory:" {
		// Create the directory if it doesn't exist
		dir := filepath.Dir(c.Database.Path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory for database: %w", err)
			}
		}

		if err := checkDirectoryWritable(dir); err != nil {
			return fmt.Errorf("database directory: %w", err)
		}
	}

	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}

	if c.Database.ConnMaxLife <= 0 {
		return fmt.Errorf("connection max life must be positive")
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvFirst returns the first set environment variable among keys
func getEnvFirst(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value, exists := os.LookupEnv(key); exists && value != "" {
			return value
		}
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 from the environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getTimeFormat converts a named time format to its actual format string
func getTimeFormat(name string) string {
	switch name {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	case "Kitchen":
		return time.Kitchen
	case "DateTime":
		return time.DateTime
	case "DateTimeMS":
		return "2006-01-02 15:04:05.000"
	default:
		return name
	}
}

// checkDirectoryWritable tests if a directory is writable
func checkDirectoryWritable(dir string) error {
	testFile := filepath.Join(dir, fmt.Sprintf("test_write_%d", time.Now().UnixNano()))
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}

	f.Close()
	os.Remove(testFile)

	return nil
}
