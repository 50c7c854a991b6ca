package main

import (
	"os"

	"github.com/bahi-dev/bahi/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
