package config

import (
	env "github.com/Netflix/go-env"
)

// envConfig mirrors the environment surface recognized by deployments.
// The cookie-key variables keep the names the hosted frontend used.
type envConfig struct {
	AuthEndpointURL *string `env:"INVOICER_AUTH_URL"`
	ChannelURL      *string `env:"INVOICER_CHANNEL_URL"`
	UsernameKey     *string `env:"INVOICER_USERNAME_COOKIE"`
	TokenKey        *string `env:"INVOICER_TOKEN_COOKIE"`
	DatabasePath    *string `env:"INVOICER_DB_PATH"`
	DownloadDir     *string `env:"INVOICER_DOWNLOAD_DIR"`
	UploadDisabled  *bool   `env:"INVOICER_DISABLE_UPLOADS"`
}

// parseEnv overlays Config with values from the environment. Unset
// variables leave the earlier stages untouched.
func parseEnv(cfg *Config) {
	var ec envConfig
	if _, err := env.UnmarshalFromEnviron(&ec); err != nil {
		panic(err)
	}

	if ec.AuthEndpointURL != nil {
		cfg.AuthEndpointURL = *ec.AuthEndpointURL
	}
	if ec.ChannelURL != nil {
		cfg.ChannelURL = *ec.ChannelURL
	}
	if ec.UsernameKey != nil {
		cfg.UsernameKey = *ec.UsernameKey
	}
	if ec.TokenKey != nil {
		cfg.TokenKey = *ec.TokenKey
	}
	if ec.DatabasePath != nil {
		cfg.DatabasePath = *ec.DatabasePath
	}
	if ec.DownloadDir != nil {
		cfg.DownloadDir = *ec.DownloadDir
	}
	if ec.UploadDisabled != nil {
		cfg.UploadDisabled = *ec.UploadDisabled
	}
}
