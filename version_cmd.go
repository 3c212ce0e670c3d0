package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mowziolabs/mowzio/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of mowzio",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Full())
	},
}
