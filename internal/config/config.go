package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Knowledge KnowledgeConfig
	Ingest    IngestConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Path string // sqlite settings database
}

type APIKeys struct {
	// GoogleGemini is the deployment-wide credential. When set it takes
	// precedence over any admin-saved key and cannot be cleared at runtime.
	GoogleGemini string
}

type KnowledgeConfig struct {
	// StoreName is the deployment-wide file search store reference. Same
	// precedence rule as the deployment credential.
	StoreName string
	// EventTopic carries knowledgebase change events on the in-process bus.
	EventTopic string
}

type IngestConfig struct {
	PollIntervalSeconds int // seconds between ingest operation polls
	MaxPollAttempts     int // polls before an ingest counts as timed out
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("SETTINGS_DB_PATH", "data/settings.db"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Knowledge: KnowledgeConfig{
			StoreName:  getEnv("RAG_STORE_NAME", ""),
			EventTopic: getEnv("KNOWLEDGEBASE_CHANGED_TOPIC_NAME", "KNOWLEDGEBASE_CHANGED"),
		},
		Ingest: IngestConfig{
			PollIntervalSeconds: getEnvAsInt("INGEST_POLL_INTERVAL_SECONDS", 3),
			MaxPollAttempts:     getEnvAsInt("INGEST_MAX_POLL_ATTEMPTS", 100),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
