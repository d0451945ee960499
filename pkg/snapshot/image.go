// Package snapshot holds the latest camera image per display key.
package snapshot

import "time"

// Image - a single camera snapshot as received from the bus.
// Records are immutable: once handed to the store neither the payload
// nor the metadata may change. A newer snapshot for the same camera
// replaces the whole record.
type Image struct {
	Payload     []byte
	ContentType string
	ReceivedAt  time.Time
}

// Size returns the payload size in bytes.
func (img *Image) Size() int {
	return len(img.Payload)
}
