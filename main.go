package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/strangelove-ventures/web3-mcp/cmd"
)

func main() {
	// A .env file is optional; configuration can come from the environment
	// or from a config file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
