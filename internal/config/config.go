// Package config loads server configuration from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds everything the server needs at startup.
type Config struct {
	// Network
	Port int `envconfig:"PORT" default:"8080"`
	// Storage
	DBPath string `envconfig:"DB_PATH" default:"./data/bills.db"`
	// Auth
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLHours int    `envconfig:"TOKEN_TTL_HOURS" default:"168"`
}

// Load reads configuration from environment variables.
// Fails when JWT_SECRET is unset: tokens must never be signed with a
// default secret.
func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
