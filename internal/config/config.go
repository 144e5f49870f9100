package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Host           string
	Port           string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	SessionSecret  string
}

func Load() *Config {
	return &Config{
		Host:           getenv("HOST", "0.0.0.0"),
		Port:           getenv("PORT", "3000"),
		PostgresDSN:    getenv("POSTGRES_DSN", "postgres://localhost:5432/todolist"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "todolist"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "todo-exports"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		SessionSecret:  getenv("SESSION_SECRET", "todo-app-secret-key-change-in-production"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
