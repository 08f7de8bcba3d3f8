package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays settings from environment variables. Unset variables
// leave the current value untouched.
func parseEnv(config *Config, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
