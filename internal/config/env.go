package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Google Calendar
	GoogleCredentialsFile string
	GoogleTokenFile       string
	CalendarID            string

	// Optional with defaults
	HTTPPort           int
	Timezone           string
	DBPath             string
	DevMode            bool
	SessionIdleMinutes int
	WorkdayStartHour   int
	WorkdayEndHour     int
	SlotMinutes        int
}

func LoadFromEnv() *Config {
	cfg := &Config{
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		CalendarID:            getEnvOrDefault("SCHEDBOT_CALENDAR_ID", "primary"),

		HTTPPort:           getEnvAsIntOrDefault("SCHEDBOT_HTTP_PORT", 8080),
		Timezone:           getEnvOrDefault("SCHEDBOT_TIMEZONE", "Asia/Kolkata"),
		DBPath:             getEnvOrDefault("SCHEDBOT_DB_PATH", "./schedbot.db"),
		DevMode:            getEnvAsBoolOrDefault("SCHEDBOT_DEV_MODE", false),
		SessionIdleMinutes: getEnvAsIntOrDefault("SCHEDBOT_SESSION_IDLE_MINUTES", 30),
		WorkdayStartHour:   getEnvAsIntOrDefault("SCHEDBOT_WORKDAY_START_HOUR", 9),
		WorkdayEndHour:     getEnvAsIntOrDefault("SCHEDBOT_WORKDAY_END_HOUR", 17),
		SlotMinutes:        getEnvAsIntOrDefault("SCHEDBOT_SLOT_MINUTES", 30),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
