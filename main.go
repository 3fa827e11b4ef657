package main

import (
	"os"

	"github.com/prepvox/prepvox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
