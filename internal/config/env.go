package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultLLMBaseURL is Groq's OpenAI-compatible endpoint
	DefaultLLMBaseURL = "https://api.groq.com/openai/v1"

	// DefaultLLMModel is the chat model used when none is configured
	DefaultLLMModel = "llama-3.3-70b-versatile"
)

// Sampling defaults used when the environment leaves a value unset. An
// explicit zero is kept.
const (
	DefaultAnalyzeTemperature = 0.3
	DefaultAnalyzeMaxTokens   = 2000
	DefaultReviewTemperature  = 0.2
	DefaultReviewMaxTokens    = 1000
	DefaultPassThreshold      = 70
)

// DefaultConfigDir returns ~/.bugsquash
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".bugsquash"), nil
}

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	defaultDBPath := filepath.Join(configDir, "bugsquash.db")
	defaultLogPath := filepath.Join(configDir, "bugsquash.log")

	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// ENV_FILE_PATH overrides the config directory lookup
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		if err := godotenv.Load(configFilePath); err != nil {
			// Then try current directory as fallback
			_ = godotenv.Load()
		}
	}

	// LLM Configuration. GROQ_API_KEY is honored for compatibility with existing deployments.
	cfg.LLM = LLMConfig{
		Provider:          getEnvString("BUGSQUASH_LLM_PROVIDER", "groq"),
		APIKey:            strings.TrimSpace(getEnvFirst("", "BUGSQUASH_LLM_API_KEY", "GROQ_API_KEY")),
		BaseURL:           getEnvString("BUGSQUASH_LLM_BASE_URL", DefaultLLMBaseURL),
		Model:             getEnvString("BUGSQUASH_LLM_MODEL", DefaultLLMModel),
		Timeout:           getEnvDuration("BUGSQUASH_LLM_TIMEOUT", 60*time.Second),
		RequestsPerMinute: getEnvInt("BUGSQUASH_LLM_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("BUGSQUASH_LLM_BURST_LIMIT", 1),
	}

	cfg.Analysis = AnalysisConfig{
		AnalyzeTemperature: getEnvFloat("BUGSQUASH_ANALYZE_TEMPERATURE", DefaultAnalyzeTemperature),
		AnalyzeMaxTokens:   getEnvInt("BUGSQUASH_ANALYZE_MAX_TOKENS", DefaultAnalyzeMaxTokens),
		ReviewTemperature:  getEnvFloat("BUGSQUASH_REVIEW_TEMPERATURE", DefaultReviewTemperature),
		ReviewMaxTokens:    getEnvInt("BUGSQUASH_REVIEW_MAX_TOKENS", DefaultReviewMaxTokens),
		EnforceThreshold:   getEnvBool("BUGSQUASH_REVIEW_ENFORCE_THRESHOLD", false),
		PassThreshold:      getEnvInt("BUGSQUASH_REVIEW_PASS_THRESHOLD", DefaultPassThreshold),
	}

	cfg.GitHub = GitHubConfig{
		Token:          getEnvString("BUGSQUASH_GITHUB_TOKEN", ""),
		APIURL:         getEnvString("BUGSQUASH_GITHUB_API_URL", "https://api.github.com"),
		RequestTimeout: getEnvDuration("BUGSQUASH_GITHUB_REQUEST_TIMEOUT", 30*time.Second),
	}

	cfg.History = HistoryConfig{
		SlotKey:    getEnvString("BUGSQUASH_HISTORY_SLOT_KEY", "bugsquash_history"),
		Capacity:   getEnvInt("BUGSQUASH_HISTORY_CAPACITY", 10),
		InputLimit: getEnvInt("BUGSQUASH_HISTORY_INPUT_LIMIT", 200),
	}

	cfg.Placeholder = PlaceholderConfig{
		Repo:      getEnvString("BUGSQUASH_PLACEHOLDER_REPO", "your-repo"),
		PRBaseURL: strings.TrimSuffix(getEnvString("BUGSQUASH_PLACEHOLDER_PR_BASE_URL", "https://github.com/user/repo"), "/"),
	}

	cfg.Server = ServerConfig{
		Addr:            getEnvString("BUGSQUASH_SERVER_ADDR", ":8080"),
		Mode:            getEnvString("BUGSQUASH_SERVER_MODE", "release"),
		ReadTimeout:     getEnvDuration("BUGSQUASH_SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("BUGSQUASH_SERVER_WRITE_TIMEOUT", 3*time.Minute),
		ShutdownTimeout: getEnvDuration("BUGSQUASH_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  splitList(getEnvString("BUGSQUASH_SERVER_ALLOWED_ORIGINS", "*")),
	}

	cfg.Database = DatabaseConfig{
		Path:            getEnvString("BUGSQUASH_DB_PATH", defaultDBPath),
		BusyTimeout:     getEnvInt("BUGSQUASH_DB_BUSY_TIMEOUT", 5000),
		JournalMode:     getEnvString("BUGSQUASH_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("BUGSQUASH_DB_SYNCHRONOUS_MODE", "NORMAL"),
		CacheSize:       getEnvInt("BUGSQUASH_DB_CACHE_SIZE", -16000),
		ForeignKeys:     getEnvBool("BUGSQUASH_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("BUGSQUASH_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("BUGSQUASH_DB_QUERY_TIMEOUT", 10*time.Second),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("BUGSQUASH_LOG_LEVEL", "info"),
		Format:     getEnvString("BUGSQUASH_LOG_FORMAT", "text"),
		Output:     getEnvString("BUGSQUASH_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("BUGSQUASH_LOG_ADD_SOURCE", false),
		TimeFormat: getTimeFormat(getEnvString("BUGSQUASH_LOG_TIME_FORMAT", "RFC3339")),
	}

	return cfg, cfg.Validate()
}

// splitList parses a comma-separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
