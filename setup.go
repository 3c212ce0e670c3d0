package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a .env file with the required settings",
	Long: `Interactively collect the settings Mowzio needs and write them to .env
in the current directory. Secrets are read without echo; existing values are
kept when the prompt is left empty.`,
	RunE: runSetup,
}

// setupKeys lists the prompted settings in order. Secret values are read
// with terminal echo disabled.
var setupKeys = []struct {
	key    string
	prompt string
	secret bool
}{
	{"TELEGRAM_BOT_TOKEN", "Telegram bot token", true},
	{"TELEGRAM_WEBHOOK_URL", "Telegram webhook URL", false},
	{"TELEGRAM_AUTHORIZED_USERNAME", "Authorized Telegram username", false},
	{"LLM_MODEL", "LLM model name", false},
	{"LLM_API_KEY", "LLM API key", true},
	{"LLM_BASE_URL", "LLM base URL", false},
	{"NAVASAN_API_KEY", "Navasan API key", true},
	{"SESSION_SECRET", "Web session secret", true},
}

const envFile = ".env"

func runSetup(_ *cobra.Command, _ []string) error {
	existing, err := godotenv.Read(envFile)
	if err != nil {
		existing = map[string]string{}
	}

	reader := bufio.NewReader(os.Stdin)
	for _, item := range setupKeys {
		current := existing[item.key]
		suffix := ""
		if current != "" {
			suffix = " [keep current]"
		}
		fmt.Printf("%s%s: ", item.prompt, suffix)

		var value string
		if item.secret && term.IsTerminal(int(os.Stdin.Fd())) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read %s: %w", item.key, err)
			}
			value = string(raw)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read %s: %w", item.key, err)
			}
			value = strings.TrimSpace(line)
		}

		if value != "" {
			existing[item.key] = value
		}
	}

	if err := godotenv.Write(existing, envFile); err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}
	fmt.Printf("Wrote %s with %d settings.\n", envFile, len(existing))
	return nil
}
