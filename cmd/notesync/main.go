package main

import (
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/client"
	"github.com/avdeyev/go-note-sync/internal/config"
	"github.com/avdeyev/go-note-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("notesync").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewFileLogger("notesync", cfg.Logging.FilePath)

	app, err := client.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init engine runtime error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("engine run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
