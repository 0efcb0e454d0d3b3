package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	Store    StoreConfig
	LLM      LLMConfig
	Notify   NotifyConfig
	Artifact ArtifactConfig
}

type StoreConfig struct {
	Driver       string
	SQLitePath   string
	PostgresDSN  string
	CacheEntries int
}

type LLMConfig struct {
	Provider   string
	Model      string
	GroqAPIKey string
	RPS        float64
	Burst      int
}

type NotifyConfig struct {
	RedisURL string
	TTL      time.Duration
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Threshold int
}

// Load reads configuration from the environment (and .env in local runs).
// portFlag, when non-empty, wins over PORT.
func Load(portFlag string) (*Config, error) {
	_ = godotenv.Load()

	port := ":8081"
	if envPort := strings.TrimSpace(os.Getenv("PORT")); envPort != "" {
		port = envPort
	}
	if strings.TrimSpace(portFlag) != "" {
		port = portFlag
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:     port,
		Env:      env,
		Store:    loadStoreConfig(),
		LLM:      loadLLMConfig(),
		Notify:   loadNotifyConfig(),
		Artifact: loadArtifactConfig(env),
	}, nil
}

func loadStoreConfig() StoreConfig {
	entries := 0
	if v := strings.TrimSpace(os.Getenv("STORE_CACHE_ENTRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			entries = n
		}
	}
	return StoreConfig{
		Driver:       firstNonEmpty(strings.TrimSpace(os.Getenv("STORE_DRIVER")), "memory"),
		SQLitePath:   strings.TrimSpace(os.Getenv("STORE_SQLITE_PATH")),
		PostgresDSN:  strings.TrimSpace(os.Getenv("STORE_PG_DSN")),
		CacheEntries: entries,
	}
}

func loadLLMConfig() LLMConfig {
	var rps float64
	var burst int
	if v := strings.TrimSpace(os.Getenv("LLM_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("LLM_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}
	return LLMConfig{
		Provider:   firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_PROVIDER")), "fake"),
		Model:      strings.TrimSpace(os.Getenv("LLM_MODEL")),
		GroqAPIKey: strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		RPS:        rps,
		Burst:      burst,
	}
}

func loadNotifyConfig() NotifyConfig {
	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("NOTIFY_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	return NotifyConfig{
		RedisURL: strings.TrimSpace(os.Getenv("REDIS_URL")),
		TTL:      ttl,
	}
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	threshold := 0
	if v := strings.TrimSpace(os.Getenv("ARTIFACT_OFFLOAD_THRESHOLD")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			threshold = n
		}
	}
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "scriptdeck-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
		Threshold: threshold,
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
