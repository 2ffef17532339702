package main

import (
	"os"

	"github.com/yswstools/hackreview/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
