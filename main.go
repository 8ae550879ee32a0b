package main

import (
	"os"

	"github.com/spigell/cvfuse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
