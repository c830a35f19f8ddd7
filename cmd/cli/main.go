package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"invoicer/internal/buildinfo"
	"invoicer/internal/client/cli"
	"invoicer/internal/client/config"
	"invoicer/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
