package snapshot

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"
)

var jpegMagic = []byte{0xff, 0xd8, 0xff}

// Normalize prepares a raw MQTT payload for storage and derives its
// content type.
//
// Frigate publishes snapshots as raw JPEG bytes, but some relays pass
// them on base64-encoded. Payloads with a known image signature go
// through untouched; a payload that decodes as base64 into bytes with
// an image signature is stored decoded. Anything else is kept verbatim
// and served with fallback as its content type.
func Normalize(payload []byte, fallback string) ([]byte, string) {
	if len(payload) == 0 {
		return payload, fallback
	}

	if contentType, ok := sniffImage(payload); ok {
		return payload, contentType
	}

	if decoded, err := base64.StdEncoding.DecodeString(string(payload)); err == nil {
		if contentType, ok := sniffImage(decoded); ok {
			return decoded, contentType
		}
	}

	return payload, fallback
}

// sniffImage reports the detected content type when data starts with a
// known image signature.
func sniffImage(data []byte) (string, bool) {
	if bytes.HasPrefix(data, jpegMagic) {
		return "image/jpeg", true
	}

	if contentType := http.DetectContentType(data); strings.HasPrefix(contentType, "image/") {
		return contentType, true
	}

	return "", false
}
