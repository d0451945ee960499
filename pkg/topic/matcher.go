// Package topic implements MQTT topic filter matching with the
// wildcard semantics of the MQTT 3.1.1 specification: "+" matches
// exactly one topic level, "#" matches the remaining levels and is
// only allowed as the final one.
package topic

import (
	"errors"
	"fmt"
	"strings"
)

const (
	singleLevelWildcard = "+"
	multiLevelWildcard  = "#"
	levelSeparator      = "/"
)

var (
	// ErrEmptyPattern is returned for an empty subscription pattern
	ErrEmptyPattern = errors.New("topic: pattern cannot be empty")

	// ErrMultiLevelNotLast is returned when "#" appears before the final level
	ErrMultiLevelNotLast = errors.New("topic: '#' is only allowed as the final level")

	// ErrEmbeddedWildcard is returned when a wildcard shares a level with other characters
	ErrEmbeddedWildcard = errors.New("topic: wildcards must occupy a whole level")
)

// Matcher matches incoming topics against one fixed subscription
// pattern and derives a display key from the wildcard captures.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	levels  []string
}

// NewMatcher validates pattern and compiles it for matching. The
// pattern is fixed for the lifetime of the matcher.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	levels := strings.Split(pattern, levelSeparator)

	for i, level := range levels {
		switch {
		case level == singleLevelWildcard || level == multiLevelWildcard:
			if level == multiLevelWildcard && i != len(levels)-1 {
				return nil, ErrMultiLevelNotLast
			}
		case strings.Contains(level, singleLevelWildcard) || strings.Contains(level, multiLevelWildcard):
			return nil, fmt.Errorf("%w: %q", ErrEmbeddedWildcard, level)
		}
	}

	return &Matcher{pattern: pattern, levels: levels}, nil
}

// Pattern returns the subscription pattern the matcher was built from.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether topic matches the pattern, and for matching
// topics returns the display key derived from it.
//
// The key consists of the topic levels captured by wildcards, joined
// with "/" in pattern order; a trailing "#" contributes all remaining
// levels. When nothing is captured (the pattern has no wildcards, or
// "#" matched zero levels) the full topic is used. Equal topics always
// yield equal keys.
func (m *Matcher) Match(topic string) (string, bool) {
	if topic == "" {
		return "", false
	}

	// Topics starting with "$" (such as $SYS/...) never match a
	// pattern whose first level is a wildcard, per MQTT 3.1.1 §4.7.2.
	first := m.levels[0]
	if (first == singleLevelWildcard || first == multiLevelWildcard) && strings.HasPrefix(topic, "$") {
		return "", false
	}

	levels := strings.Split(topic, levelSeparator)
	captures := make([]string, 0, len(m.levels))

	for i, patternLevel := range m.levels {
		if patternLevel == multiLevelWildcard {
			if rest := strings.Join(levels[i:], levelSeparator); rest != "" {
				captures = append(captures, rest)
			}
			return m.keyFrom(captures, topic), true
		}

		if i >= len(levels) {
			return "", false
		}

		if patternLevel == singleLevelWildcard {
			captures = append(captures, levels[i])
			continue
		}

		if patternLevel != levels[i] {
			return "", false
		}
	}

	if len(levels) != len(m.levels) {
		return "", false
	}

	return m.keyFrom(captures, topic), true
}

func (m *Matcher) keyFrom(captures []string, topic string) string {
	key := strings.Join(captures, levelSeparator)
	if key == "" {
		return topic
	}
	return key
}
