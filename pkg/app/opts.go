package app

import (
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/gateway"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/mqtt"
)

// Opts - application run options
type Opts struct {
	MQTT    mqtt.Opts
	Gateway gateway.Opts
}
