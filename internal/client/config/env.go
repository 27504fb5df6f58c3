package config

import (
	"os"

	"github.com/dmitrijs2005/userfetcher/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvClientID     = "FORTYTWO_CLIENT_ID"
	EnvClientSecret = "FORTYTWO_CLIENT_SECRET"
	EnvCampus       = "FORTYTWO_CAMPUS"
)

// parseEnv loads the dotenv file (missing file is fine; variables already
// set in the process win) and copies the known variables into cfg.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(flagx.EnvFile())

	cfg.ClientID = os.Getenv(EnvClientID)
	cfg.ClientSecret = os.Getenv(EnvClientSecret)
	if v := os.Getenv(EnvCampus); v != "" {
		cfg.CampusName = v
	}
}
