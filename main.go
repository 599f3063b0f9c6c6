package main

import (
	"os"

	"github.com/kattitatu/riot-account-manager/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
