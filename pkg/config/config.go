package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	// Remote record store (Postgres)
	DatabaseDSN string

	// Local record store (SQLite)
	LocalDataDir string

	// Remote object store
	StorageBaseURL    string
	StorageBucket     string
	StorageServiceKey string

	// AI providers
	AIProvider      string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OllamaBaseURL   string
	OllamaModel     string

	// Sync engine
	ProxyBaseURL    string
	ServiceToken    string
	SyncMaxRetries  int
	SyncRetryBase   time.Duration
	SyncWorkerCount int
	ResyncInterval  time.Duration

	// Proxy endpoint limits
	MaxAudioBytes      int64
	DraftEmailLimit    int
	DraftEmailWindow   time.Duration
	OutboundAPITimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	return &Config{
		Port:      port,
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=sortie port=5432 sslmode=disable"),
		LocalDataDir: getEnv("LOCAL_DATA_DIR", "./data"),

		StorageBaseURL:    getEnv("STORAGE_BASE_URL", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", "captures"),
		StorageServiceKey: getEnv("STORAGE_SERVICE_KEY", ""),

		AIProvider:      getEnv("AI_PROVIDER", "auto"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.2-vision"),

		ProxyBaseURL:    getEnv("PROXY_BASE_URL", "http://localhost:"+port),
		ServiceToken:    getEnv("SERVICE_TOKEN", ""),
		SyncMaxRetries:  getEnvInt("SYNC_MAX_RETRIES", 2),
		SyncRetryBase:   getEnvDuration("SYNC_RETRY_BASE", time.Second),
		SyncWorkerCount: getEnvInt("SYNC_WORKER_COUNT", 3),
		ResyncInterval:  getEnvDuration("RESYNC_INTERVAL", 5*time.Minute),

		MaxAudioBytes:      int64(getEnvInt("MAX_AUDIO_BYTES", 25*1024*1024)),
		DraftEmailLimit:    getEnvInt("DRAFT_EMAIL_LIMIT", 10),
		DraftEmailWindow:   getEnvDuration("DRAFT_EMAIL_WINDOW", time.Minute),
		OutboundAPITimeout: getEnvDuration("OUTBOUND_API_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
