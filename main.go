package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// main is a tiny entrypoint that delegates to the cobra command tree in
// root.go. Keeping this file minimal keeps responsibilities focused.
func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
