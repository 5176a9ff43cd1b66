package main

import (
	"os"

	"github.com/rustyeddy/trixsweep/cmd/trixsweep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
