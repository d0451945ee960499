package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/utils"
)

// version is set through ldflags at build time
var version = "dev"

func initLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func logAppVersion() {
	log.Info().Str("version", version).Msg("Frigate snapshot viewer")
}

func setLogLevel() {
	raw := utils.EnvVarStr("LOG_LEVEL", "info")

	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		log.Warn().Str("level", raw).Msg("Unknown LOG_LEVEL, falling back to info")
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
}
