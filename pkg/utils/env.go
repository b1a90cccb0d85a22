package utils

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetEnvDuration parses key with time.ParseDuration, returning fallback when
// unset or malformed.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
