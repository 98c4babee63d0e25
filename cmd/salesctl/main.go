package main

import (
	"os"

	"github.com/salesapi/accounts/cmd/salesctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
