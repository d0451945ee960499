package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/metrics"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/snapshot"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/topic"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/utils"
)

const (
	connectTimeout  = 10 * time.Second
	requestTimeout  = 5 * time.Second
	resetThreshold  = 10 * time.Second
	reconnectJitter = 0.3

	// Quiesce for paho's Disconnect, in milliseconds
	disconnectQuiesce = 250

	payloadOnline  = "online"
	payloadOffline = "offline"
)

// reconnectCooldown - waits between failed connection attempts, the
// last entry repeats until the broker comes back.
var reconnectCooldown = []time.Duration{
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
}

// client - the slice of paho's Client the ingestor drives. Narrowed so
// tests can substitute a fake broker session.
type client interface {
	Connect() MQTT.Token
	Subscribe(topic string, qos byte, callback MQTT.MessageHandler) MQTT.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token
	Disconnect(quiesce uint)
}

// clientFactory builds the broker session for one connection attempt.
type clientFactory func(mqttOpts *MQTT.ClientOptions) client

// Ingestor - owns the broker link and feeds matched snapshots into the store
type Ingestor struct {
	Opts Opts

	matcher *topic.Matcher
	store   *snapshot.Store

	newClient clientFactory
	cooldown  []time.Duration

	stateMu sync.RWMutex
	state   ConnState
}

// NewIngestor - constructor
func NewIngestor(opts Opts, matcher *topic.Matcher, store *snapshot.Store) *Ingestor {
	return &Ingestor{
		Opts:    opts,
		matcher: matcher,
		store:   store,
		newClient: func(mqttOpts *MQTT.ClientOptions) client {
			return MQTT.NewClient(mqttOpts)
		},
		cooldown: reconnectCooldown,
		state:    StateDisconnected,
	}
}

// State - current lifecycle state of the broker link
func (in *Ingestor) State() ConnState {
	in.stateMu.RLock()
	defer in.stateMu.RUnlock()
	return in.state
}

// Run - keeps the broker link alive until ctx is cancelled. Failed
// attempts are retried forever with a capped, jittered cooldown.
func (in *Ingestor) Run(ctx utils.GracefulContext) {
	utils.RunWithPerseverance(func(attempt utils.AttemptContext) {
		in.runSession(attempt)
	}, ctx, utils.PerseverenceOpts{
		RunnerID:       "mqtt",
		ResetThreshold: resetThreshold,
		Cooldown:       in.cooldown,
		Jitter:         reconnectJitter,
	})

	in.transition(StateStopped)
}

// runSession drives a single connect/subscribe/serve cycle.
func (in *Ingestor) runSession(attempt utils.AttemptContext) {
	in.transition(StateConnecting)

	connLost := make(chan error, 1)
	c := in.newClient(in.clientOptions(connLost))

	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		// Release the half-open session, a late CONNACK must not leave
		// an orphaned connection behind while the retry dials a new one.
		c.Disconnect(disconnectQuiesce)
		in.transition(StateDisconnected)
		attempt.Fail(fmt.Errorf("%w: connect timed out after %v", ErrConnectionFailed, connectTimeout))
		return
	}
	if err := token.Error(); err != nil {
		err = classifyConnectError(err)
		in.transition(StateDisconnected)

		if errors.Is(err, ErrAuthFailed) {
			log.Error().Str("broker_url", in.Opts.BrokerURL()).Err(err).
				Msg("Broker rejected credentials, check MQTT_USERNAME and MQTT_PASSWORD")
		} else {
			log.Error().Str("broker_url", in.Opts.BrokerURL()).Err(err).
				Msg("Unable to connect to MQTT broker")
		}

		attempt.Fail(err)
		return
	}

	log.Info().Str("broker_url", in.Opts.BrokerURL()).Msg("Successfully connected to MQTT broker")
	metrics.BrokerConnects.Inc()

	subToken := c.Subscribe(in.Opts.Topic, in.Opts.QoS, in.handleMessage)
	if !subToken.WaitTimeout(requestTimeout) || subToken.Error() != nil {
		// A timed-out token carries no error yet, it is still a failed
		// subscription and handled like a connection loss.
		err := subToken.Error()
		if err == nil {
			err = fmt.Errorf("no acknowledgement after %v", requestTimeout)
		}

		in.transition(StateDisconnected)
		c.Disconnect(disconnectQuiesce)

		log.Error().Str("topic", in.Opts.Topic).Err(err).Msg("Unable to subscribe to snapshot topic")
		attempt.Fail(fmt.Errorf("%w: %v", ErrSubscribeFailed, err))
		return
	}

	log.Info().Str("topic", in.Opts.Topic).Msg("Subscribed to snapshot topic")
	in.transition(StateSubscribed)
	in.publishStatus(c, payloadOnline)

	select {
	case <-attempt.Done():
		log.Debug().Msg("Closing MQTT connection on interrupt")
		in.publishStatus(c, payloadOffline)
		c.Disconnect(disconnectQuiesce)
		in.transition(StateDisconnected)

	case err := <-connLost:
		metrics.BrokerDisconnects.Inc()
		in.transition(StateDisconnected)
		attempt.Fail(fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}
}

// clientOptions assembles the paho options for one session. Reconnects
// are owned by the perseverance loop, so paho's own machinery is off.
func (in *Ingestor) clientOptions(connLost chan<- error) *MQTT.ClientOptions {
	mqttOpts := MQTT.NewClientOptions()
	mqttOpts.AddBroker(in.Opts.BrokerURL())
	mqttOpts.SetClientID(in.Opts.ClientID)
	mqttOpts.SetUsername(in.Opts.Username)
	mqttOpts.SetPassword(in.Opts.Password)
	mqttOpts.SetCleanSession(true)
	mqttOpts.SetKeepAlive(in.Opts.KeepAlive)
	mqttOpts.SetConnectTimeout(connectTimeout)
	mqttOpts.SetAutoReconnect(false)
	mqttOpts.SetConnectionLostHandler(func(_ MQTT.Client, err error) {
		select {
		case connLost <- err:
		default:
		}
	})

	if in.Opts.StatusTopic != "" {
		mqttOpts.SetWill(in.Opts.StatusTopic, payloadOffline, in.Opts.QoS, true)
	}

	return mqttOpts
}

// handleMessage feeds one bus message through the matcher into the store.
func (in *Ingestor) handleMessage(_ MQTT.Client, msg MQTT.Message) {
	key, ok := in.matcher.Match(msg.Topic())
	if !ok {
		metrics.MessagesReceived.WithLabelValues("ignored").Inc()
		log.Debug().Str("topic", msg.Topic()).Str("pattern", in.matcher.Pattern()).
			Msg("Ignoring message outside subscription pattern")
		return
	}

	payload, contentType := snapshot.Normalize(msg.Payload(), in.Opts.FallbackContentType)

	in.store.Put(key, &snapshot.Image{
		Payload:     payload,
		ContentType: contentType,
		ReceivedAt:  time.Now(),
	})

	metrics.MessagesReceived.WithLabelValues("stored").Inc()
	metrics.CachedCameras.Set(float64(in.store.Len()))

	log.Debug().
		Str("topic", msg.Topic()).
		Str("key", key).
		Int("bytes", len(payload)).
		Str("content_type", contentType).
		Msg("Snapshot updated")
}

// publishStatus publishes the retained availability payload, if enabled.
func (in *Ingestor) publishStatus(c client, payload string) {
	if in.Opts.StatusTopic == "" {
		return
	}

	token := c.Publish(in.Opts.StatusTopic, in.Opts.QoS, true, payload)
	if !token.WaitTimeout(requestTimeout) {
		log.Warn().Str("topic", in.Opts.StatusTopic).Msg("Timed out waiting for availability publish")
		return
	}
	if err := token.Error(); err != nil {
		log.Warn().Err(err).Str("topic", in.Opts.StatusTopic).Msg("Unable to publish availability status")
	}
}

// transition moves the connection state machine. Stopped is terminal.
func (in *Ingestor) transition(to ConnState) {
	in.stateMu.Lock()
	defer in.stateMu.Unlock()

	if in.state == to || in.state == StateStopped {
		return
	}

	log.Debug().Stringer("from", in.state).Stringer("to", to).Msg("MQTT connection state changed")
	in.state = to
}
