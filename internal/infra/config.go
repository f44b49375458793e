package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Document store backends accepted by DOCUMENT_STORE.
const (
	DocumentStorePostgres = "postgres"
	DocumentStoreMongo    = "mongo"
	DocumentStoreNone     = "none"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	MetricsPort   string
	DatabaseURL   string
	DocumentStore string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	JWTSecret     string
	GeoIPDBPath   string
	CORSOrigins   []string

	TrustedProxies []string

	FirebaseProjectID string

	ReplicateAPIKey     string
	ReplicateBaseURL    string
	HuggingFaceAPIKey   string
	HuggingFaceBaseURL  string
	PollinationsBaseURL string
	VocabularyPath      string

	PollInterval         time.Duration
	GenerationTimeout    time.Duration
	VersionWatchInterval time.Duration
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	RateLimitPerMin      int
	MigrateOnStart       bool
}

// LoadDotEnv loads .env.local then .env when present. Variables already set
// in the environment win over both files.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		MetricsPort:   getEnv("METRICS_PORT", "9091"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "interiorai"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		CORSOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),

		FirebaseProjectID: strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),

		ReplicateAPIKey:     strings.TrimSpace(os.Getenv("REPLICATE_API_KEY")),
		ReplicateBaseURL:    getEnv("REPLICATE_BASE_URL", "https://api.replicate.com"),
		HuggingFaceAPIKey:   strings.TrimSpace(os.Getenv("HUGGINGFACE_API_KEY")),
		HuggingFaceBaseURL:  getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/hf-inference"),
		PollinationsBaseURL: getEnv("POLLINATIONS_BASE_URL", "https://pollinations.ai"),
		VocabularyPath:      os.Getenv("VOCABULARY_PATH"),

		PollInterval:         time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 2000)),
		GenerationTimeout:    time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 240)),
		VersionWatchInterval: time.Minute * time.Duration(getEnvInt("VERSION_WATCH_INTERVAL_MINUTES", 60)),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		MigrateOnStart:       getEnvBool("MIGRATE_ON_START", false),
	}

	defaultStore := DocumentStoreNone
	if cfg.DatabaseURL != "" {
		defaultStore = DocumentStorePostgres
	}
	cfg.DocumentStore = strings.ToLower(getEnv("DOCUMENT_STORE", defaultStore))

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_MS must be positive")
	}
	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// DocumentStoreIssue describes why the configured document store cannot be
// opened, or returns nil. Callers run without persistence when it is non-nil.
func (c *Config) DocumentStoreIssue() error {
	switch c.DocumentStore {
	case DocumentStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DOCUMENT_STORE=postgres")
		}
	case DocumentStoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DOCUMENT_STORE=mongo")
		}
	case DocumentStoreNone:
	default:
		return fmt.Errorf("unsupported DOCUMENT_STORE %q", c.DocumentStore)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
