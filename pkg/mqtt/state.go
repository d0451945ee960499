package mqtt

// ConnState - lifecycle state of the broker link.
//
// The link cycles Disconnected -> Connecting -> Subscribed and drops
// back to Disconnected whenever the session is lost. Stopped is
// terminal and only entered on shutdown.
type ConnState int32

const (
	// StateDisconnected - no broker session, a reconnect attempt is pending
	StateDisconnected ConnState = iota

	// StateConnecting - CONNECT handshake in flight
	StateConnecting

	// StateSubscribed - session established, snapshot subscription active
	StateSubscribed

	// StateStopped - shut down for good, no further attempts
	StateStopped
)

// String - state name for logs and the status endpoint
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}
