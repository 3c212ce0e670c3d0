package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mowziolabs/mowzio/internal/config"
	"github.com/mowziolabs/mowzio/internal/memory"
	"github.com/mowziolabs/mowzio/internal/store"
)

var amnesiaCmd = &cobra.Command{
	Use:   "amnesia",
	Short: "Wipe persisted conversation memory",
	Long:  `Delete every persisted conversation from the Mowzio database.`,
	RunE:  runAmnesia,
}

func runAmnesia(_ *cobra.Command, _ []string) error {
	settings := config.Load()
	s, err := store.NewSQLiteStore(settings.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := memory.WipeAll(s)
	if err != nil {
		return err
	}
	fmt.Printf("💭 Zzzzzap! Wiped %d conversation(s).\n", n)
	return nil
}
