package main

import (
	"os"

	"github.com/fliptech/ftab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
