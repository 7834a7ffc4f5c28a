package main

import (
	"os"

	"github.com/pfrederiksen/sportcast/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
