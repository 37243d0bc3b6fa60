package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	LogLevel        string
	OwnerName       string
	AdminName       string
	AdminCredential string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() *Config {
	// A missing .env file is not an error; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		OwnerName:       getEnv("LEDGER_OWNER", "Laveesh Sanadhya"),
		AdminName:       getEnv("ADMIN_NAME", "BankAdmin"),
		AdminCredential: getEnv("ADMIN_CREDENTIAL", "admin_pass"),
	}
}

// getEnv fetches environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
