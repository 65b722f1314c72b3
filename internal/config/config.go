package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken     string
	DBPath       string
	ServerPort   string
	PollInterval string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		BotToken:     getEnv("BOT_TOKEN", ""),
		DBPath:       getEnv("DB_PATH", "study_bot.db"),
		ServerPort:   getEnv("SERVER_PORT", ""),
		PollInterval: getEnv("POLL_INTERVAL", "2"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
