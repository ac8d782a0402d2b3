package main

import (
	"os"

	"github.com/contaudit-dev/contaudit/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
