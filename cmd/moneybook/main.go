package main

import (
	"os"

	"moneybook/cmd/moneybook/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
