package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/karev/applicant-sync/cmd"
)

func main() {
	// Missing .env is fine; variables may come from the environment itself.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
