package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "")
		t.Setenv("DB_PATH", "")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("POLL_INTERVAL", "")

		cfg := Load()
		assert.Empty(t, cfg.BotToken)
		assert.Equal(t, "study_bot.db", cfg.DBPath)
		assert.Empty(t, cfg.ServerPort)
		assert.Equal(t, "2", cfg.PollInterval)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "123:abc")
		t.Setenv("DB_PATH", "/tmp/bot.db")
		t.Setenv("SERVER_PORT", "8080")

		cfg := Load()
		assert.Equal(t, "123:abc", cfg.BotToken)
		assert.Equal(t, "/tmp/bot.db", cfg.DBPath)
		assert.Equal(t, "8080", cfg.ServerPort)
	})
}
