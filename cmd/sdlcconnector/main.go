package main

import (
	"os"

	"github.com/solatis/sdlc-connector/cmd/sdlcconnector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
