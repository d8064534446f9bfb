package main

import (
	"os"

	"supramolecular/cmd/bindfit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
