package config

import "time"

// Config holds runtime settings for folioctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the content API.
//   - RequestTimeout: deadline of a single API call.
//   - CreateAdminEmail: when set, folioctl creates this admin directly in
//     the database instead of starting the REPL.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	CreateAdminEmail   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
