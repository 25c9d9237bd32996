package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the ranking engine.
type Config struct {
	DatabaseURL    string
	JWTSecretKey   string
	ServerPort     int
	RecalcWorkers  int
	RecalcInterval time.Duration
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	workers := 4
	if workersStr := os.Getenv("RECALC_WORKERS"); workersStr != "" {
		workers, err = strconv.Atoi(workersStr)
		if err != nil || workers < 1 {
			return nil, fmt.Errorf("RECALC_WORKERS must be a positive integer, got %q", workersStr)
		}
	}

	interval := 24 * time.Hour
	if intervalStr := os.Getenv("RECALC_INTERVAL"); intervalStr != "" {
		interval, err = time.ParseDuration(intervalStr)
		if err != nil || interval <= 0 {
			return nil, fmt.Errorf("invalid RECALC_INTERVAL environment variable: %q", intervalStr)
		}
	}

	return &Config{
		DatabaseURL:    dbURL,
		JWTSecretKey:   jwtKey,
		ServerPort:     port,
		RecalcWorkers:  workers,
		RecalcInterval: interval,
	}, nil
}
