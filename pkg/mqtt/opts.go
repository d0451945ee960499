package mqtt

import (
	"fmt"
	"time"
)

// Opts - holds configuration needed to establish connection to the broker
type Opts struct {
	BrokerHost string
	BrokerPort int
	ClientID   string

	Username string
	Password string

	// Topic - subscription pattern the bridge listens on, may contain + and # wildcards
	Topic string
	QoS   byte

	// StatusTopic - retained availability topic, empty disables availability publishing
	StatusTopic string

	KeepAlive time.Duration

	// FallbackContentType - served content type when payload sniffing is inconclusive
	FallbackContentType string
}

// BrokerURL - the tcp:// address the client dials
func (opts Opts) BrokerURL() string {
	return fmt.Sprintf("tcp://%v:%v", opts.BrokerHost, opts.BrokerPort)
}
