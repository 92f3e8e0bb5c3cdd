package config

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.path", "zdm.db")

	// Override in production; the default only exists so `serve` starts locally.
	v.SetDefault("auth.jwt_secret", "zdm-development-secret-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", "zdm_server_go")

	// License paths poll every 500ms, everything else every second.
	v.SetDefault("poller.timeout", 5*time.Second)
	v.SetDefault("poller.license_interval", 500*time.Millisecond)
	v.SetDefault("poller.generic_interval", time.Second)

	v.SetDefault("ids.max_attempts", 16)

	v.SetDefault("ratelimit.requests_per_second", 20.0)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}
