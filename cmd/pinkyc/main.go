package main

import (
	"os"

	"github.com/lhaig/pinky/internal/pinkycmd"
)

func main() {
	if err := pinkycmd.Execute(); err != nil {
		os.Exit(1)
	}
}
