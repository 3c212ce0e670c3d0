package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds everything Mowzio reads from the environment. An optional
// .env file in the working directory is loaded first; real environment
// variables win over the file.
type Settings struct {
	Telegram TelegramSettings
	LLM      LLMSettings
	Rates    RatesSettings

	DBPath        string
	SessionSecret string
	Port          string
}

type TelegramSettings struct {
	BotToken           string
	WebhookURL         string
	AuthorizedUsername string
}

type LLMSettings struct {
	Model   string
	APIKey  string
	BaseURL string
}

type RatesSettings struct {
	NavasanAPIKey string
}

const (
	defaultDBPath = "mowzio.db"
	defaultPort   = "8080"
)

// Load reads settings from .env (if present) and the environment.
func Load() *Settings {
	// Missing .env is fine, env vars may be set directly.
	_ = godotenv.Load()

	return &Settings{
		Telegram: TelegramSettings{
			BotToken:           os.Getenv("TELEGRAM_BOT_TOKEN"),
			WebhookURL:         os.Getenv("TELEGRAM_WEBHOOK_URL"),
			AuthorizedUsername: os.Getenv("TELEGRAM_AUTHORIZED_USERNAME"),
		},
		LLM: LLMSettings{
			Model:   os.Getenv("LLM_MODEL"),
			APIKey:  os.Getenv("LLM_API_KEY"),
			BaseURL: os.Getenv("LLM_BASE_URL"),
		},
		Rates: RatesSettings{
			NavasanAPIKey: os.Getenv("NAVASAN_API_KEY"),
		},
		DBPath:        envOr("MOWZIO_DB_PATH", defaultDBPath),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Port:          envOr("PORT", defaultPort),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RequireLLM validates the settings the LLM client needs.
func (s *Settings) RequireLLM() error {
	return missingSettings(map[string]string{
		"LLM_MODEL":    s.LLM.Model,
		"LLM_API_KEY":  s.LLM.APIKey,
		"LLM_BASE_URL": s.LLM.BaseURL,
	})
}

// RequireTelegram validates the settings the bot needs.
func (s *Settings) RequireTelegram() error {
	return missingSettings(map[string]string{
		"TELEGRAM_BOT_TOKEN":           s.Telegram.BotToken,
		"TELEGRAM_AUTHORIZED_USERNAME": s.Telegram.AuthorizedUsername,
	})
}

// RequireRates validates the settings the exchange-rates fetcher needs.
func (s *Settings) RequireRates() error {
	return missingSettings(map[string]string{
		"NAVASAN_API_KEY": s.Rates.NavasanAPIKey,
	})
}

// RequireServe validates everything the HTTP service needs, including the
// rates key since serve hosts the /currensee command.
func (s *Settings) RequireServe() error {
	if err := s.RequireTelegram(); err != nil {
		return err
	}
	if err := s.RequireLLM(); err != nil {
		return err
	}
	if err := s.RequireRates(); err != nil {
		return err
	}
	return missingSettings(map[string]string{
		"SESSION_SECRET": s.SessionSecret,
	})
}

func missingSettings(keys map[string]string) error {
	var missing []string
	for name, value := range keys {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
}

// ListenAddr returns the address for the HTTP server.
func (s *Settings) ListenAddr() string {
	if _, err := strconv.Atoi(s.Port); err != nil {
		return ":" + defaultPort
	}
	return ":" + s.Port
}
