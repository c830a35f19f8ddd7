package config

import (
	"encoding/json"
	"os"
	"time"

	"invoicer/internal/flagx"
	"invoicer/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	AuthEndpointURL string          `json:"auth_endpoint_url"`
	ChannelURL      string          `json:"channel_url"`
	UsernameKey     string          `json:"username_key"`
	TokenKey        string          `json:"token_key"`
	DatabasePath    string          `json:"database_path"`
	DownloadDir     string          `json:"download_dir"`
	UploadDisabled  *bool           `json:"upload_disabled"`
	VerifyTimeout   *timex.Duration `json:"verify_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override earlier stages. Read or
// unmarshal errors panic; the config stage has nothing sensible to fall
// back to.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.AuthEndpointURL != "" {
		cfg.AuthEndpointURL = jc.AuthEndpointURL
	}
	if jc.ChannelURL != "" {
		cfg.ChannelURL = jc.ChannelURL
	}
	if jc.UsernameKey != "" {
		cfg.UsernameKey = jc.UsernameKey
	}
	if jc.TokenKey != "" {
		cfg.TokenKey = jc.TokenKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.UploadDisabled != nil {
		cfg.UploadDisabled = *jc.UploadDisabled
	}
	if jc.VerifyTimeout != nil {
		cfg.VerifyTimeout = time.Duration(jc.VerifyTimeout.Duration)
	}
}
