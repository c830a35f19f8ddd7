package config

import (
	"flag"
	"os"

	"invoicer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   auth service endpoint URL
//	-w string   channel (websocket) URL
//	-d string   local database path
//	-o string   download output directory
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with the -c/-config flags
// parsed by the JSON stage.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthEndpointURL, "a", cfg.AuthEndpointURL, "auth service endpoint URL")
	fs.StringVar(&cfg.ChannelURL, "w", cfg.ChannelURL, "channel websocket URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download output directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
