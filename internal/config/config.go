package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	HR       HRConfig
	Ai       AIConfig
	Index    IndexConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type HRConfig struct {
	BaseURL string
}

type AIConfig struct {
	LLMProvider       string // "mistral" or "ollama"
	LLMModel          string
	EmbeddingProvider string // "mistral" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	MistralAPIKey     string
}

type IndexConfig struct {
	DocsPath     string
	ChunkSize    int
	ChunkOverlap int
	Backend      string // "memory" or "pgvector"
}

type SessionConfig struct {
	Backend string // "memory" or "redis"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		HR: HRConfig{
			BaseURL: getEnv("HR_API_BASE_URL", "http://localhost:8080"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "mistral"),
			LLMModel:          getEnv("LLM_MODEL", "mistral-large-latest"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "mistral"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			MistralAPIKey:     getEnv("MISTRAL_API_KEY", ""),
		},
		Index: IndexConfig{
			DocsPath:     getEnv("POLICY_DOCS_PATH", "./docs/policies"),
			ChunkSize:    getEnvAsInt("INDEX_CHUNK_SIZE", 800),
			ChunkOverlap: getEnvAsInt("INDEX_CHUNK_OVERLAP", 150),
			Backend:      getEnv("VECTOR_STORE_BACKEND", "memory"),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
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
