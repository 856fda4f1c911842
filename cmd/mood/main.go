package main

import (
	"os"

	"github.com/riasnelli/nse-market-mood-sub000/cmd/mood/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
