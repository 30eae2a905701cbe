package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ab-tracker/internal/cli"
)

func main() {
	// Try the common location for .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
