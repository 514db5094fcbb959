package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a .env file in the working directory.
// A missing file is not an error, and variables already present in the
// environment are never overridden.
func LoadEnvFile() error {
	return loadEnvFile()
}

func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}
