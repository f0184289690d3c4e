package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	ClientURL  string

	StorageDriver string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	RelayPort       string
	RelayURL        string
	RelayMaxRetries int
	RelayRetryDelay time.Duration

	MergePolicy string
	CycleCheck  bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ClientURL:  getEnv("CLIENT_URL", "http://localhost:3000"),

		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/tasks.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "tasks_user"),
		DBPassword:    getEnv("DB_PASSWORD", "tasks_pass"),
		DBName:        getEnv("DB_NAME", "tasks_db"),

		RelayPort:       getEnv("RELAY_PORT", getEnv("WS_PORT", "3001")),
		RelayURL:        getEnv("RELAY_URL", "ws://localhost:3001/ws"),
		RelayMaxRetries: getEnvInt("RELAY_MAX_RETRIES", 5),
		RelayRetryDelay: getEnvDuration("RELAY_RETRY_DELAY", time.Second),

		MergePolicy: getEnv("MERGE_POLICY", "none"),
		CycleCheck:  getEnvBool("CYCLE_CHECK", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, raw, defaultVal)
		return defaultVal
	}
	return v
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %s", key, raw, defaultVal)
		return defaultVal
	}
	return v
}

func getEnvBool(key string, defaultVal bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %t", key, raw, defaultVal)
		return defaultVal
	}
	return v
}
