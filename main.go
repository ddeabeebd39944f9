package main

import (
	"os"

	"github.com/cisohq/reasond/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
