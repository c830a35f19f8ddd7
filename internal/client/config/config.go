package config

import "time"

// Config holds runtime settings for the invoicer CLI.
//
// Fields:
//   - AuthEndpointURL: the auth service endpoint (one URL, HTTP method
//     selects the operation).
//   - ChannelURL: ws:// or wss:// URL of the ingestion backend channel.
//   - UsernameKey / TokenKey: names of the two persisted credential slots.
//   - DatabasePath: path of the local SQLite database.
//   - DownloadDir: directory downloaded files are saved to.
//   - UploadDisabled: demo-mode switch that blocks uploads with a notice.
//   - VerifyTimeout: budget for the token verification round trip on start.
type Config struct {
	AuthEndpointURL string
	ChannelURL      string
	UsernameKey     string
	TokenKey        string
	DatabasePath    string
	DownloadDir     string
	UploadDisabled  bool
	VerifyTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthEndpointURL = "http://127.0.0.1:5000/api/users"
	c.ChannelURL = "ws://127.0.0.1:5001/channel"
	c.UsernameKey = "username"
	c.TokenKey = "token"
	c.DatabasePath = "invoicer.db"
	c.DownloadDir = "downloads"
	c.UploadDisabled = false
	c.VerifyTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
