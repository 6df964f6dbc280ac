package main

import (
	"os"

	"github.com/rpgo/rsim/cmd/rsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
