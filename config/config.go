package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBackendURL is used when neither BACKEND_URL nor NEXT_PUBLIC_API_URL is set
	DefaultBackendURL = "http://localhost:8000"
	// DefaultLocale is the language used for error messages and activity labels
	DefaultLocale = "pt-BR"
)

type Config struct {
	ServerPort  string
	Environment string
	// Backend Data Service
	BackendURL      string
	UpstreamTimeout time.Duration
	FanOutLimit     int
	DebugUpstream   bool // log raw bodies of failed upstream responses
	// DataJud (CNJ public API); lookup is disabled without a key
	DataJudURL    string
	DataJudAPIKey string
	// HTTP
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	DefaultLocale     string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	fanOut := getEnvInt("FANOUT_LIMIT", 4)
	if fanOut < 1 {
		log.Printf("[WARNING] FANOUT_LIMIT must be >= 1 (got %d), using 1", fanOut)
		fanOut = 1
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "3001"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		BackendURL:        ResolveBackendURL(os.Getenv("BACKEND_URL"), os.Getenv("NEXT_PUBLIC_API_URL")),
		UpstreamTimeout:   getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		FanOutLimit:       fanOut,
		DebugUpstream:     getEnvBool("DEBUG_UPSTREAM", false),
		DataJudURL:        getEnv("DATAJUD_URL", "https://api-publica.datajud.cnj.jus.br"),
		DataJudAPIKey:     os.Getenv("DATAJUD_API_KEY"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", DefaultLocale),
	}
}

// ResolveBackendURL picks the server-side URL first and the public one second.
// Both are reduced to the service root: the "/api/v1" suffix some deployments
// carry in NEXT_PUBLIC_API_URL is stripped, since every upstream path is built
// from the root.
func ResolveBackendURL(backendURL, publicURL string) string {
	raw := strings.TrimSpace(backendURL)
	if raw == "" {
		raw = strings.TrimSpace(publicURL)
	}
	if raw == "" {
		log.Printf("Using default value for BACKEND_URL: %s", DefaultBackendURL)
		return DefaultBackendURL
	}

	raw = strings.TrimRight(raw, "/")
	raw = strings.TrimSuffix(raw, "/api/v1")
	return strings.TrimRight(raw, "/")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err == nil {
		return parsed
	}

	// Plain integers are seconds ("15" => 15s)
	if seconds, parseErr := strconv.Atoi(value); parseErr == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction reports whether the service runs with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
