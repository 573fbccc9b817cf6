package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port         string
	Env          string
	MaxBodyBytes int64

	// Logging
	LogLevel string
	LogJSON  bool

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiClient         string // "legacy" | "genai"
	GeminiTimeout        time.Duration
	GeminiConcurrentReqs int

	// Response shaping
	TokenEstimator string // "words" | "tiktoken"

	// Rate limiting
	RateLimitPerMin int
	RedisURL        string

	// Frontend
	FrontendURL string
}

// MissingEnvError is returned by Load when a required variable is unset.
type MissingEnvError struct {
	Key string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Key)
}

// Load reads the environment once at startup. The only hard requirement is
// the Gemini API key.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	apiKey, err := requireEnv("GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		MaxBodyBytes:         int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 10<<20)),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:              getEnvAsBoolOrDefault("LOG_JSON", false),
		GeminiAPIKey:         apiKey,
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiClient:         strings.ToLower(getEnvOrDefault("GEMINI_CLIENT", "legacy")),
		GeminiTimeout:        getEnvAsDurationOrDefault("GEMINI_TIMEOUT", 60*time.Second),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		TokenEstimator:       strings.ToLower(getEnvOrDefault("TOKEN_ESTIMATOR", "words")),
		RateLimitPerMin:      getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	if cfg.GeminiConcurrentReqs < 1 {
		cfg.GeminiConcurrentReqs = 1
	}

	switch cfg.GeminiClient {
	case "legacy", "genai":
	default:
		return nil, fmt.Errorf("GEMINI_CLIENT must be \"legacy\" or \"genai\", got %q", cfg.GeminiClient)
	}

	return cfg, nil
}

// requireEnv returns the first non-empty value among keys.
func requireEnv(keys ...string) (string, error) {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val, nil
		}
	}
	return "", &MissingEnvError{Key: keys[0]}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
