package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// instantLayout mirrors the ISO-8601 strings written by the browser client.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// localLayout is the zone-less form found in older seed data. It is read as UTC.
const localLayout = "2006-01-02T15:04:05"

// Instant is a UTC point in time with millisecond precision.
type Instant struct {
	time.Time
}

// NewInstant normalizes t to UTC milliseconds.
func NewInstant(t time.Time) Instant {
	return Instant{Time: t.UTC().Truncate(time.Millisecond)}
}

// ParseInstant reads RFC 3339 or the zone-less local layout.
func ParseInstant(s string) (Instant, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewInstant(t), nil
	}
	t, err := time.Parse(localLayout, s)
	if err != nil {
		return Instant{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return NewInstant(t), nil
}

func (i Instant) String() string {
	return i.UTC().Format(instantLayout)
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("instant: %w", err)
	}
	parsed, err := ParseInstant(raw)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
