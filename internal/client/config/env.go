package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIURLEnvVar is the single environment variable the data layer reads.
const APIURLEnvVar = "MINISTRY_API_URL"

// parseEnv loads dotenv (if present, without overriding the real
// environment) and applies MINISTRY_API_URL.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv(APIURLEnvVar)); v != "" {
		cfg.APIBaseURL = v
	}
	return nil
}
