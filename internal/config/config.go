package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTAlgorithm is the only signing algorithm accepted in JWT_ALGORITHM.
const JWTAlgorithm = "HS256"

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	JWT           JWTConfig
	Transcription TranscriptionConfig
	LLM           LLMConfig
	TTS           TTSConfig
	Storage       StorageConfig
	WebSocket     WebSocketConfig
	CORS          CORSConfig
	Logging       LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Env             string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL  string
	Name string
}

type CacheConfig struct {
	Enabled bool
	URL     string
	TTL     time.Duration
}

type JWTConfig struct {
	Secret     string
	Algorithm  string
	Expiration time.Duration
}

type TranscriptionConfig struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	Timeout      time.Duration
}

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type TTSConfig struct {
	BaseURL string
	APIKey  string
}

// StorageConfig selects S3-compatible audio storage when Bucket is set.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type WebSocketConfig struct {
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxConnPerUser int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads settings from the environment, after merging a .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return d
	}
	required := func(key string) string {
		v := getEnv(key, "")
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Env:             getEnv("ENV", "development"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 25<<20)),
			ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", "30s"),
		},
		Database: DatabaseConfig{
			URL:  couchURL(),
			Name: getEnv("DB_NAME", "lifeos"),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", false),
			URL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTL:     duration("CACHE_TTL", "1h"),
		},
		JWT: JWTConfig{
			Secret:     required("JWT_SECRET"),
			Algorithm:  getEnv("JWT_ALGORITHM", JWTAlgorithm),
			Expiration: time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		Transcription: TranscriptionConfig{
			BaseURL:      getEnv("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com"),
			APIKey:       required("ASSEMBLYAI_API_KEY"),
			PollInterval: duration("TRANSCRIPTION_POLL_INTERVAL", "1s"),
			Timeout:      duration("TRANSCRIPTION_TIMEOUT", "5m"),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:  required("GEMINI_API_KEY"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		TTS: TTSConfig{
			BaseURL: getEnv("GOOGLE_TTS_BASE_URL", "https://texttospeech.googleapis.com"),
			APIKey:  required("GOOGLE_TTS_API_KEY"),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: int64(getEnvAsInt("WS_MAX_MESSAGE_SIZE", 4096)),
			WriteWait:      duration("WS_WRITE_WAIT", "10s"),
			PongWait:       duration("WS_PONG_WAIT", "60s"),
			MaxConnPerUser: getEnvAsInt("WS_MAX_CONN_PER_USER", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "*"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	cfg.WebSocket.PingPeriod = cfg.WebSocket.PongWait * 9 / 10

	if cfg.Database.URL == "" {
		errs = append(errs, errors.New("COUCHDB_URL or DB_HOST is required"))
	}
	if cfg.JWT.Algorithm != JWTAlgorithm {
		errs = append(errs, fmt.Errorf("unsupported JWT_ALGORITHM %q: only %s is allowed", cfg.JWT.Algorithm, JWTAlgorithm))
	}
	if cfg.Storage.Bucket != "" && (cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// couchURL prefers COUCHDB_URL and otherwise assembles one from the DB_* parts.
func couchURL() string {
	if u := getEnv("COUCHDB_URL", ""); u != "" {
		return u
	}

	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}

	u := url.URL{
		Scheme: "http",
		Host:   host + ":" + getEnv("DB_PORT", "5984"),
	}
	if user := getEnv("DB_USER", ""); user != "" {
		u.User = url.UserPassword(user, getEnv("DB_PASSWORD", ""))
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// UseS3 reports whether audio should go to S3-compatible storage.
func (c *Config) UseS3() bool {
	return strings.TrimSpace(c.Storage.Bucket) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
