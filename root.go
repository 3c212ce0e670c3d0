package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mowziolabs/mowzio/version"
)

var rootCmd = &cobra.Command{
	Use:   "mowzio",
	Short: "Mowzio - a personal assistant bot",
	Long: `Mowzio is a single-user personal assistant: a Telegram bot backed by an
LLM agent with tool calling, window-buffered conversation memory, and a
cached exchange-rates lookup.

Use subcommands to run the different surfaces:
  - serve: start the HTTP service (webhook receiver and web chat)
  - chat: talk to the agent from the terminal
  - rates: print current exchange rates
  - amnesia: wipe persisted conversation memory
  - setup: write a .env file with the required settings`,
	Version: version.Full(),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(amnesiaCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the zap logger shared by all commands.
func newLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
