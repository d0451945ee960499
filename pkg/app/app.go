package app

import (
	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/gateway"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/mqtt"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/snapshot"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/topic"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/utils"
)

// App - application container
type App struct {
	Opts     Opts
	Store    *snapshot.Store
	Ingestor *mqtt.Ingestor
	Gateway  *gateway.Server
}

// NewApp - constructor
// Returns an error when the topic pattern or the TLS configuration is invalid.
func NewApp(opts Opts) (*App, error) {
	matcher, err := topic.NewMatcher(opts.MQTT.Topic)
	if err != nil {
		return nil, err
	}

	store := snapshot.NewStore()
	ingestor := mqtt.NewIngestor(opts.MQTT, matcher, store)

	gw, err := gateway.NewServer(opts.Gateway, store, func() gateway.BrokerStatus {
		return gateway.BrokerStatus{
			URL:     opts.MQTT.BrokerURL(),
			Pattern: opts.MQTT.Topic,
			State:   ingestor.State().String(),
		}
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Opts:     opts,
		Store:    store,
		Ingestor: ingestor,
		Gateway:  gw,
	}, nil
}

// Run - application main loop
func (app *App) Run(ctx utils.GracefulContext) {
	log.Info().
		Str("broker_url", app.Opts.MQTT.BrokerURL()).
		Str("topic", app.Opts.MQTT.Topic).
		Msg("Starting snapshot bridge")

	ctx.RunAsChild(func(childCtx utils.GracefulContext) {
		app.Ingestor.Run(childCtx)
	})

	ctx.RunAsChild(func(childCtx utils.GracefulContext) {
		app.Gateway.Run(childCtx)
	})

	<-ctx.Done()
}
