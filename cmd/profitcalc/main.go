package main

import (
	"os"

	"github.com/profitcalc/profitcalc/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
