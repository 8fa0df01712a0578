package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Parse loads configuration values from environment variables into the provided
// struct. Fields use `env` tags for variable names and `envDefault` tags for
// fallback values; nested structs may declare an `envPrefix` tag. The namespace
// parameter is prepended (with a trailing underscore) to every variable name so
// that several services can share one environment.
func Parse(cfg any, namespace string) error {
	opts := env.Options{}
	if namespace != "" {
		opts.Prefix = namespace + "_"
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
