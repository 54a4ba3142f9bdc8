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

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Interview InterviewConfig
	Knowledge KnowledgeConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	VideoModel      string
	EmbedModel      string
	Temperature     float32
	PollInterval    time.Duration
	PollTimeout     time.Duration
	RetryMaxElapsed time.Duration
}

type StorageConfig struct {
	ResumePath      string
	MediaTempPath   string
	MaxFileSize     int64
	MaxVideoSize    int64
	MediaTTL        time.Duration
	JanitorInterval time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	ExpirationMinutes int
	BcryptCost        int
}

// InterviewConfig holds the termination policy knobs. MaxRounds of zero
// leaves termination purely score driven.
type InterviewConfig struct {
	ContinueThreshold float64
	MaxRounds         int
	Companies         []string
}

// KnowledgeConfig points at the optional company knowledge base. An empty
// URL disables retrieval.
type KnowledgeConfig struct {
	URL        string
	APIKey     string
	Collection string
}

func (k KnowledgeConfig) Enabled() bool {
	return k.URL != ""
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8000"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_prep"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			VideoModel:      getEnv("GEMINI_VIDEO_MODEL", "gemini-2.5-pro"),
			EmbedModel:      getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			Temperature:     float32(getEnvAsFloat("GEMINI_TEMPERATURE", 1.0)),
			PollInterval:    getEnvAsDuration("MEDIA_POLL_INTERVAL", "10s"),
			PollTimeout:     getEnvAsDuration("MEDIA_POLL_TIMEOUT", "5m"),
			RetryMaxElapsed: getEnvAsDuration("ORACLE_RETRY_MAX_ELAPSED", "30s"),
		},
		Storage: StorageConfig{
			ResumePath:      getEnv("RESUME_PATH", "./resumes"),
			MediaTempPath:   getEnv("MEDIA_TEMP_PATH", os.TempDir()+"/interview-media"),
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxVideoSize:    getEnvAsInt64("MAX_VIDEO_SIZE", 104857600),
			MediaTTL:        getEnvAsDuration("MEDIA_TTL", "30m"),
			JanitorInterval: getEnvAsDuration("JANITOR_INTERVAL", "5m"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET_KEY", "your-secret-key"),
			ExpirationMinutes: getEnvAsInt("JWT_EXPIRATION_MINUTES", 30),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
		},
		Interview: InterviewConfig{
			ContinueThreshold: getEnvAsFloat("CONTINUE_THRESHOLD", 3.0),
			MaxRounds:         getEnvAsInt("MAX_ROUNDS", 0),
			Companies: getEnvAsList("COMPANIES", []string{
				"Google", "Amazon", "Microsoft", "Meta", "Apple", "Netflix",
			}),
		},
		Knowledge: KnowledgeConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "company_interview_guides"),
		},
	}
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Interview.ContinueThreshold < 0 || c.Interview.ContinueThreshold > 10 {
		return fmt.Errorf("CONTINUE_THRESHOLD must be within [0,10], got %.2f", c.Interview.ContinueThreshold)
	}
	if c.Interview.MaxRounds < 0 {
		return fmt.Errorf("MAX_ROUNDS cannot be negative, got %d", c.Interview.MaxRounds)
	}
	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.Auth.BcryptCost)
	}
	if c.Auth.ExpirationMinutes < 1 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be at least 1, got %d", c.Auth.ExpirationMinutes)
	}
	if c.Server.Env != "development" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "your-secret-key") {
		return fmt.Errorf("JWT_SECRET_KEY must be set outside development")
	}
	if c.Gemini.PollInterval <= 0 {
		return fmt.Errorf("MEDIA_POLL_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
