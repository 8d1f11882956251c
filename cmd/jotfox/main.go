package main

import (
	"os"

	"jotfox-notes/jotfox/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
