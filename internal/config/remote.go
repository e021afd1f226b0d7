package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/ridewell/rematch/internal/registry"
)

// LoadRemoteConfig assembles the remote-service client configuration from
// Viper (config file or REMATCH_ environment variables).
func LoadRemoteConfig() registry.Config {
	cfg := registry.Config{
		BaseURL: viper.GetString("remote.base_url"),
		APIKey:  viper.GetString("remote.api_key"),
	}
	if timeout := viper.GetDuration("remote.timeout"); timeout > 0 {
		cfg.Timeout = timeout
	} else {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}

// ScopeID returns the configured organizational scope for driver aggregation.
func ScopeID() string {
	return viper.GetString("remote.scope_id")
}
