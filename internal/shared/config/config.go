package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultMaxUploadBytes = 5 << 20 // 5MB

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	PublicBaseURL   string
	CORSAllowOrigin []string

	ObjectStoreType  string
	LocalStoreDir    string
	UploadsRoute     string
	MaxUploadBytes   int64
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	S3PublicBaseURL  string
	GCSBucket        string
	GCSPrefix        string
	GCSPublicBaseURL string

	LLMProvider    string
	LLMModel       string
	LLMTemperature float64
	LLMTimeout     time.Duration
	LLMMaxRetries  int
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	AnthropicKey   string

	RateLimitCreateRPS   float64
	RateLimitCreateBurst int

	OTelEnabled  bool
	OTelExporter string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	port := getEnv("PORT", "5000")

	cfg := Config{
		Port:            port,
		Env:             env,
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+strings.TrimPrefix(port, ":")), "/"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),

		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./uploads"),
		UploadsRoute:     normalizeRoute(getEnv("UPLOADS_ROUTE", "/uploads")),
		MaxUploadBytes:   getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		S3PublicBaseURL:  getEnv("S3_PUBLIC_BASE_URL", ""),
		GCSBucket:        getEnv("GCS_BUCKET", ""),
		GCSPrefix:        getEnv("GCS_PREFIX", ""),
		GCSPublicBaseURL: getEnv("GCS_PUBLIC_BASE_URL", ""),

		LLMProvider:    normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.6),
		LLMTimeout:     time.Duration(getEnvInt64("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		LLMMaxRetries:  int(getEnvInt64("LLM_MAX_RETRIES", 1)),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),

		RateLimitCreateRPS:   getEnvFloat("RATE_LIMIT_CREATE_RPS", 0),
		RateLimitCreateBurst: int(getEnvInt64("RATE_LIMIT_CREATE_BURST", 5)),

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelExporter: strings.ToLower(getEnv("OTEL_EXPORTER", "stdout")),
	}
	cfg.LLMModel = getEnv("LLM_MODEL", DefaultModel(cfg.LLMProvider))
	return cfg
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0, 2]")
	}
	switch c.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
	case "gcs":
		if strings.TrimSpace(c.GCSBucket) == "" {
			return fmt.Errorf("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
	}
	return nil
}

// IsDevLike reports whether the environment tolerates fallbacks such as the offline generator.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

// DefaultModel returns the model used when LLM_MODEL is unset.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.5-flash"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "offline":
		return "offline"
	default:
		return "gpt-3.5-turbo"
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Existing environment wins over file values.
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: could not load %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid float %q, using %v", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "anthropic", "claude":
		return "anthropic"
	case "offline", "placeholder":
		return "offline"
	default:
		return "openai"
	}
}

func normalizeRoute(raw string) string {
	route := "/" + strings.Trim(strings.TrimSpace(raw), "/")
	if route == "/" {
		return "/uploads"
	}
	return route
}
