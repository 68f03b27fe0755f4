package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	// Comma-separated origin allow-list, or "*".
	CORSOrigins string

	SessionTTLDays int
	SetupKey       string

	UploadDir  string
	PublicBase string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("JABUSPARK_DB_HOST", "localhost"),
		DBPort:     getEnv("JABUSPARK_DB_PORT", "3306"),
		DBUser:     getEnv("JABUSPARK_DB_USER", "jabuspark"),
		DBPassword: getEnv("JABUSPARK_DB_PASS", "jabuspark"),
		DBName:     getEnv("JABUSPARK_DB_NAME", "jabuspark"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		CORSOrigins: getEnv("JABUSPARK_CORS_ORIGIN", "http://localhost:5173"),

		SessionTTLDays: getEnvInt("JABUSPARK_SESSION_TTL_DAYS", 30),
		SetupKey:       getEnv("JABUSPARK_SETUP_KEY", "CHANGE_ME_SETUP_KEY"),

		UploadDir:  getEnv("JABUSPARK_UPLOAD_DIR", "./uploads"),
		PublicBase: getEnv("JABUSPARK_PUBLIC_BASE", ""),
	}, nil
}

// AllowedOrigins normalizes the configured allow-list for the CORS middleware.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
