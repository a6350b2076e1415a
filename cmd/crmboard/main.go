package main

import (
	"os"

	"github.com/imkarma/crmboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
