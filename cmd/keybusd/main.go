package main

import (
	"os"

	"keybus/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
