// Package metrics exposes the bridge's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesReceived counts MQTT messages by outcome ("stored", "ignored").
	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frigate_viewer_mqtt_messages_total",
			Help: "Total number of MQTT messages received, labeled by outcome",
		},
		[]string{"outcome"},
	)

	// BrokerConnects counts successful broker connections.
	BrokerConnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "frigate_viewer_mqtt_connects_total",
			Help: "Total number of successful MQTT broker connections",
		},
	)

	// BrokerDisconnects counts broker connections lost after they were established.
	BrokerDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "frigate_viewer_mqtt_disconnects_total",
			Help: "Total number of MQTT broker connections lost",
		},
	)

	// CachedCameras tracks the number of cameras with a cached snapshot.
	CachedCameras = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frigate_viewer_cached_cameras",
			Help: "Current number of cameras with a cached snapshot",
		},
	)

	// SnapshotsServed counts snapshot downloads over HTTP.
	SnapshotsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "frigate_viewer_snapshots_served_total",
			Help: "Total number of snapshots served over HTTP",
		},
	)
)
