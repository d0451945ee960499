package topic_test

import (
	"testing"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatcherValidation(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{name: "plain topic", pattern: "frigate/hofcam1/person/snapshot"},
		{name: "single level wildcard", pattern: "frigate/+/+/snapshot"},
		{name: "trailing multi level wildcard", pattern: "frigate/#"},
		{name: "lone multi level wildcard", pattern: "#"},
		{name: "lone single level wildcard", pattern: "+"},
		{name: "wildcard mix", pattern: "+/events/#"},
		{name: "empty pattern", pattern: "", wantErr: topic.ErrEmptyPattern},
		{name: "hash before final level", pattern: "frigate/#/snapshot", wantErr: topic.ErrMultiLevelNotLast},
		{name: "plus embedded in level", pattern: "frigate/cam+/snapshot", wantErr: topic.ErrEmbeddedWildcard},
		{name: "hash embedded in level", pattern: "frigate/cam#", wantErr: topic.ErrEmbeddedWildcard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := topic.NewMatcher(tt.pattern)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		wantKey string
		wantOK  bool
	}{
		// Single level wildcard
		{pattern: "a/+/c", topic: "a/b/c", wantKey: "b", wantOK: true},
		{pattern: "a/+/c", topic: "a/b/d", wantOK: false},
		{pattern: "a/+/c", topic: "a/c", wantOK: false},
		{pattern: "a/+/c", topic: "a/b/c/d", wantOK: false},
		{pattern: "a/+", topic: "a/b/c", wantOK: false},

		// Multi level wildcard
		{pattern: "a/#", topic: "a/b", wantKey: "b", wantOK: true},
		{pattern: "a/#", topic: "a/b/c", wantKey: "b/c", wantOK: true},
		{pattern: "a/#", topic: "a", wantKey: "a", wantOK: true},
		{pattern: "a/#", topic: "b/x", wantOK: false},
		{pattern: "#", topic: "x/y", wantKey: "x/y", wantOK: true},

		// No wildcards: the full topic becomes the key
		{pattern: "a/b", topic: "a/b", wantKey: "a/b", wantOK: true},
		{pattern: "a/b", topic: "a/c", wantOK: false},

		// Several captures join in pattern order
		{pattern: "frigate/+/+/snapshot", topic: "frigate/hofcam1/person/snapshot", wantKey: "hofcam1/person", wantOK: true},
		{pattern: "frigate/+/+/snapshot", topic: "frigate/hofcam1/person/clip", wantOK: false},
		{pattern: "+/events/#", topic: "site1/events/door/front", wantKey: "site1/door/front", wantOK: true},

		// Topics beginning with $ are invisible to leading wildcards
		{pattern: "#", topic: "$SYS/broker/uptime", wantOK: false},
		{pattern: "+/broker", topic: "$SYS/broker", wantOK: false},
		{pattern: "$SYS/#", topic: "$SYS/broker/uptime", wantKey: "broker/uptime", wantOK: true},

		// Empty topic never matches
		{pattern: "#", topic: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.topic, func(t *testing.T) {
			m, err := topic.NewMatcher(tt.pattern)
			require.NoError(t, err)

			key, ok := m.Match(tt.topic)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	m, err := topic.NewMatcher("frigate/+/+/snapshot")
	require.NoError(t, err)

	first, ok := m.Match("frigate/hofcam1/person/snapshot")
	require.True(t, ok)

	for i := 0; i < 100; i++ {
		key, ok := m.Match("frigate/hofcam1/person/snapshot")
		require.True(t, ok)
		require.Equal(t, first, key)
	}
}
