package main

import (
	"os"

	"github.com/anirud/tatami/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
