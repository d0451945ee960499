package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/app"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/gateway"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/mqtt"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/utils"
)

// validPort checks if a port is a valid port number (1-65535)
func validPort(port int) bool {
	return port >= 1 && port <= 65535
}

// defaultClientID returns a per-process client ID. A random suffix
// keeps two instances from kicking each other off the broker.
func defaultClientID() string {
	return "frigate-viewer-" + uuid.New().String()[:8]
}

func main() {
	initLogger()
	logAppVersion()
	utils.LoadDotEnvFile()
	setLogLevel()

	// HTTP TLS configuration
	tlsConfig := gateway.ServerTLSConfig{
		Enabled:  utils.EnvVarBool("HTTP_TLS_ENABLED", false),
		CertFile: utils.EnvVarStr("HTTP_TLS_CERT_FILE", ""),
		KeyFile:  utils.EnvVarStr("HTTP_TLS_KEY_FILE", ""),
	}

	// Validate TLS config if enabled
	if err := tlsConfig.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid TLS configuration")
	}

	brokerPort := utils.EnvVarInt("MQTT_BROKER_PORT", 1883)
	if !validPort(brokerPort) {
		log.Fatal().Int("port", brokerPort).Msg("Invalid MQTT_BROKER_PORT. Must be a valid port number (1-65535)")
	}

	httpPort := utils.EnvVarInt("HTTP_PORT", 8080)
	if !validPort(httpPort) {
		log.Fatal().Int("port", httpPort).Msg("Invalid HTTP_PORT. Must be a valid port number (1-65535)")
	}

	qos := utils.EnvVarInt("MQTT_QOS", 0)
	if qos < 0 || qos > 2 {
		log.Fatal().Int("qos", qos).Msg("Invalid MQTT_QOS. Must be 0, 1 or 2")
	}

	opts := app.Opts{
		MQTT: mqtt.Opts{
			BrokerHost:          utils.EnvVarStr("MQTT_BROKER_HOST", "localhost"),
			BrokerPort:          brokerPort,
			ClientID:            utils.EnvVarStr("MQTT_CLIENT_ID", defaultClientID()),
			Username:            utils.EnvVarStr("MQTT_USERNAME", ""),
			Password:            utils.EnvVarStr("MQTT_PASSWORD", ""),
			Topic:               utils.EnvVarStr("MQTT_TOPIC", "frigate/+/+/snapshot"),
			QoS:                 byte(qos),
			StatusTopic:         utils.EnvVarStr("MQTT_STATUS_TOPIC", "frigate-viewer/status"),
			KeepAlive:           utils.EnvVarSeconds("MQTT_KEEPALIVE", 60*time.Second),
			FallbackContentType: utils.EnvVarStr("IMAGE_CONTENT_TYPE", "image/jpeg"),
		},
		Gateway: gateway.Opts{
			Host:            utils.EnvVarStr("HTTP_HOST", "0.0.0.0"),
			Port:            httpPort,
			TLS:             tlsConfig,
			RefreshInterval: utils.EnvVarMillis("IMAGE_REFRESH_MS", 2*time.Second),
		},
	}

	log.Info().
		Str("broker", fmt.Sprintf("%v:%v", opts.MQTT.BrokerHost, opts.MQTT.BrokerPort)).
		Str("topic", opts.MQTT.Topic).
		Str("client_id", opts.MQTT.ClientID).
		Str("http", fmt.Sprintf("%v:%v", opts.Gateway.Host, opts.Gateway.Port)).
		Dur("refresh_interval", opts.Gateway.RefreshInterval).
		Msg("Configuration loaded")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	instance, err := app.NewApp(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	runner := utils.RunWithGracefulCancel(instance.Run)

	runnerDone := make(chan struct{})
	var runnerErr error
	go func() {
		_, runnerErr = runner.Wait()
		close(runnerDone)
	}()

	select {
	case <-runnerDone:
		if runnerErr != nil {
			log.Fatal().Err(runnerErr).Msg("Application failed")
		}
		log.Info().Msg("Clean exit")
		return

	case <-interrupt:
		log.Warn().Msg("Received interrupt signal, terminating")
	}

	waitForCleanup := make(chan struct{}, 1)

	go func() {
		runner.Cancel()
		close(waitForCleanup)
	}()

	select {
	case <-interrupt:
		log.Fatal().Msg("Received another interrupt signal, forcing termination without clean up")
	case <-waitForCleanup:
		log.Info().Msg("Clean exit")
	}
}
