package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort         = "8080"
	defaultDatabasePath = "fyyur.db"
	defaultErrorLogPath = "error.log"
	defaultLogLevel     = "info"
)

type Config struct {
	// HTTP port to listen on
	Port string

	// sqlite database file
	DatabasePath string

	// debug mode logs to the console only; otherwise errors also go to ErrorLogPath
	Debug        bool
	ErrorLogPath string
	LogLevel     string

	// origins allowed by the CORS middleware
	CORSAllowedOrigins []string

	// insert the demo listings on startup
	SeedDemoData bool
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(envVar string, defaultVal []string) []string {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func LoadConfig() Config {
	return Config{
		Port:               getEnvOrDefault("PORT", defaultPort),
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		Debug:              getEnvBoolOrDefault("DEBUG", false),
		ErrorLogPath:       getEnvOrDefault("ERROR_LOG_PATH", defaultErrorLogPath),
		LogLevel:           strings.ToLower(getEnvOrDefault("LOG_LEVEL", defaultLogLevel)),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:" + getEnvOrDefault("PORT", defaultPort)}),
		SeedDemoData:       getEnvBoolOrDefault("SEED_DEMO_DATA", false),
	}
}
