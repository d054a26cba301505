package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // EVENT_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Model    ModelConfig
	Copy     CopyConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings. Empty Addr disables the job queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig holds AWS credentials and the poster image bucket. Empty PostersBucket disables image storage.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	PostersBucket        string
	PresignExpireMinutes int
}

// ModelConfig holds the chat-completion endpoint settings used for copy generation.
type ModelConfig struct {
	APIKey      string // DEEPSEEK_API_KEY, else OPENAI_API_KEY; empty = template copy only
	Endpoint    string
	Name        string
	Temperature float64
	MaxTokens   int
	TimeoutSec  int
}

// CopyConfig controls how event data is rendered into copy.
type CopyConfig struct {
	AffiliationName string
	TimeZone        string
}

// WorkerConfig holds background copy regeneration settings.
type WorkerConfig struct {
	MaxRetries int
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Timeout returns the per-call model deadline.
func (c ModelConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// Location resolves TimeZone, falling back to UTC+8 when the name is unknown.
func (c CopyConfig) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	temperature, err := strconv.ParseFloat(getEnv("MODEL_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("parse MODEL_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 60),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "posters"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", "ap-east-1"),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			PostersBucket:        getEnv("AWS_S3_POSTERS_BUCKET", ""),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Model: ModelConfig{
			APIKey:      firstEnv("DEEPSEEK_API_KEY", "OPENAI_API_KEY"),
			Endpoint:    getEnv("MODEL_ENDPOINT", "https://api.deepseek.com/chat/completions"),
			Name:        getEnv("MODEL_NAME", "deepseek-chat"),
			Temperature: temperature,
			MaxTokens:   getEnvInt("MODEL_MAX_TOKENS", 500),
			TimeoutSec:  getEnvInt("MODEL_TIMEOUT_SEC", 20),
		},
		Copy: CopyConfig{
			AffiliationName: getEnv("AFFILIATION_NAME", "华东师范大学"),
			TimeZone:        getEnv("EVENT_TIMEZONE", "Asia/Shanghai"),
		},
		Worker: WorkerConfig{
			MaxRetries: getEnvInt("COPY_JOB_MAX_RETRIES", 3),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
