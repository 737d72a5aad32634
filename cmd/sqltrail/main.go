package main

import (
	"os"

	"github.com/mickamy/sqltrail/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
