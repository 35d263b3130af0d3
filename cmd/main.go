package main

import (
	"os"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
