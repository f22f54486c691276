package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mhaddaou/docchat/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load .env if present, for OPENAI_API_KEY and friends.
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
