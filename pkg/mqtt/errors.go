package mqtt

import (
	"errors"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang/packets"
)

// Failure classes for broker operations. Callers match with errors.Is.
var (
	// ErrConnectionFailed - the broker is unreachable or refused the network connection
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrAuthFailed - the broker rejected our credentials. Retried like
	// any other connection failure, but logged louder so a wrong
	// password does not drown in reconnect noise.
	ErrAuthFailed = errors.New("mqtt: authentication rejected by broker")

	// ErrSubscribeFailed - the broker accepted the connection but refused the subscription
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")
)

// classifyConnectError wraps a raw paho connect error with the
// matching failure class.
func classifyConnectError(err error) error {
	if errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword) || errors.Is(err, packets.ErrorRefusedNotAuthorised) {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
}
