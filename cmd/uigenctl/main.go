package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
