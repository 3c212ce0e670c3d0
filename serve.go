package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mowziolabs/mowzio/internal/config"
	"github.com/mowziolabs/mowzio/internal/llm"
	"github.com/mowziolabs/mowzio/internal/rates"
	"github.com/mowziolabs/mowzio/internal/store"
	"github.com/mowziolabs/mowzio/internal/telegram"
	"github.com/mowziolabs/mowzio/version"
)

const sessionName = "mowzio-session"

//go:embed templates/*
var templatesFS embed.FS

// Shared state for the serving surfaces, initialized by runServe.
var (
	cfg          *config.Settings
	logger       *zap.SugaredLogger
	db           store.Store
	llmClient    *llm.Client
	bot          *telegram.Bot
	registry     *telegram.Registry
	ratesSvc     *rates.Service
	sessionStore *sessions.CookieStore
	tpl          *template.Template
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the Mowzio HTTP service: the Telegram webhook receiver, a health
check, and the web chat. The webhook is registered on startup when
TELEGRAM_WEBHOOK_URL is set.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg = config.Load()
	if err := cfg.RequireServe(); err != nil {
		return err
	}

	var err error
	logger, err = newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err = store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	llmClient, err = llm.NewClient(llm.Config{
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	}, logger)
	if err != nil {
		return err
	}

	bot, err = telegram.NewBot(cfg.Telegram.BotToken, logger)
	if err != nil {
		return err
	}
	ratesSvc = rates.NewService(cfg.Rates.NavasanAPIKey, db, logger)

	sessionStore = sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{HttpOnly: true, Secure: false, Path: "/"}

	tpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

	registry = telegram.NewRegistry(logger)
	registerHandlers()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.WebhookURL == "" {
		logger.Warnw("TELEGRAM_WEBHOOK_URL not set, skipping webhook registration")
	} else if err := bot.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
		return err
	} else {
		logger.Infow("webhook registered", "url", cfg.Telegram.WebhookURL)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/telegram/webhook", handleWebhook)
	mux.HandleFunc("/chat", handleChat)
	mux.HandleFunc("/chat/send", handleChatSend)

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: loggingMiddleware(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("mowzio listening", "addr", srv.Addr, "version", version.Get())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Infow("shutdown complete")
	return nil
}
