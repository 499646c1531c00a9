package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel  string
	LogFormat string

	// Gemini AI. The key is optional: without it the server still boots
	// and every generation endpoint answers with a configuration error.
	GeminiAPIKey string
	GeminiModel  string

	// Certificates
	CertFontPath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Port:         getEnvOrDefault("PORT", "8000"),
		Env:          getEnvOrDefault("ENV", "development"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "pretty"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		CertFontPath: getEnvOrDefault("CERT_FONT_PATH", "./fonts/DejaVuSans.ttf"),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "*"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
