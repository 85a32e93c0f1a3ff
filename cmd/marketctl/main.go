package main

import (
	"os"

	"github.com/GlebRadaev/marketplace/cmd/marketctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
