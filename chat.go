package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mowziolabs/mowzio/internal/agent"
	"github.com/mowziolabs/mowzio/internal/config"
	"github.com/mowziolabs/mowzio/internal/llm"
	"github.com/mowziolabs/mowzio/internal/memory"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent from the terminal",
	Long: `Start an interactive chat session with the Mowzio agent. History lives
in memory for the duration of the session; type "quit" to leave.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	settings := config.Load()
	if err := settings.RequireLLM(); err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := llm.NewClient(llm.Config{
		Model:   settings.LLM.Model,
		APIKey:  settings.LLM.APIKey,
		BaseURL: settings.LLM.BaseURL,
	}, log)
	if err != nil {
		return err
	}
	ag, err := agent.New(client, memory.NewWindowBuffer(0), agent.DefaultTools(), log)
	if err != nil {
		return err
	}

	fmt.Printf("Chatting with %s. Type 'quit' to exit.\n", settings.LLM.Model)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") || strings.EqualFold(input, "exit") {
			break
		}

		reply, err := ag.Process(cmd.Context(), input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("Mowzio: %s\n", reply)
	}
	return scanner.Err()
}
