package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mowziolabs/mowzio/internal/config"
	"github.com/mowziolabs/mowzio/internal/rates"
	"github.com/mowziolabs/mowzio/internal/store"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print current exchange rates",
	Long: `Fetch the latest exchange rates from the Navasan API and print them.
Results are cached for two hours in the Mowzio database, shared with the
/currensee bot command.`,
	RunE: runRates,
}

func runRates(cmd *cobra.Command, _ []string) error {
	settings := config.Load()
	if err := settings.RequireRates(); err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := store.NewSQLiteStore(settings.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	svc := rates.NewService(settings.Rates.NavasanAPIKey, s, log)
	items, err := svc.Latest(cmd.Context())
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// Plain output for pipes.
		for _, item := range items {
			price := "Not Available"
			if item.Price != nil {
				price = fmt.Sprintf("%d", *item.Price)
			}
			fmt.Printf("%s\t%s\n", item.Name, price)
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"", "Item", "Price"})
	for _, item := range items {
		price := "Not Available"
		if item.Price != nil {
			price = fmt.Sprintf("%d", *item.Price)
		}
		t.AppendRow(table.Row{item.Icon, item.Name, price})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
