package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_AUTHORIZED_USERNAME",
		"LLM_MODEL", "LLM_API_KEY", "LLM_BASE_URL",
		"NAVASAN_API_KEY", "MOWZIO_DB_PATH", "SESSION_SECRET", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	s := Load()
	assert.Equal(t, "mowzio.db", s.DBPath)
	assert.Equal(t, "8080", s.Port)
	assert.Empty(t, s.Telegram.BotToken)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("MOWZIO_DB_PATH", "/tmp/test.db")
	t.Setenv("PORT", "9090")

	s := Load()
	assert.Equal(t, "123:abc", s.Telegram.BotToken)
	assert.Equal(t, "gpt-4o-mini", s.LLM.Model)
	assert.Equal(t, "/tmp/test.db", s.DBPath)
	assert.Equal(t, "9090", s.Port)
}

func TestRequireLLM(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "sk-test")

	s := Load()
	err := s.RequireLLM()
	require.Error(t, err)
	// Missing keys are listed sorted.
	assert.Equal(t, "missing required settings: LLM_BASE_URL, LLM_MODEL", err.Error())

	t.Setenv("LLM_MODEL", "m")
	t.Setenv("LLM_BASE_URL", "https://api.example.com/v1")
	require.NoError(t, Load().RequireLLM())
}

func TestRequireServe(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_AUTHORIZED_USERNAME", "amin")
	t.Setenv("LLM_MODEL", "m")
	t.Setenv("LLM_API_KEY", "k")
	t.Setenv("LLM_BASE_URL", "u")

	// Serve hosts /currensee, so the rates key is required too.
	err := Load().RequireServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAVASAN_API_KEY")

	t.Setenv("NAVASAN_API_KEY", "nk")
	err = Load().RequireServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "shhh")
	require.NoError(t, Load().RequireServe())
}

func TestListenAddr(t *testing.T) {
	clearEnv(t)

	s := Load()
	assert.Equal(t, ":8080", s.ListenAddr())

	s.Port = "3000"
	assert.Equal(t, ":3000", s.ListenAddr())

	s.Port = "not-a-port"
	assert.Equal(t, ":8080", s.ListenAddr())
}
