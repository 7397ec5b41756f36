package models

import (
	"encoding/json"
	"fmt"
)

// Status is the case state of a victim. The string value is the display
// label, which is also the persisted form.
type Status string

const (
	StatusSafe          Status = "Safe"
	StatusCritical      Status = "Critical"
	StatusMissing       Status = "Missing"
	StatusMissingFamily Status = "Missing Family"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusSafe, StatusCritical, StatusMissing, StatusMissingFamily}

// ParseStatus accepts a display label or the identifier spelling
// ("MissingFamily").
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Safe":
		return StatusSafe, nil
	case "Critical":
		return StatusCritical, nil
	case "Missing":
		return StatusMissing, nil
	case "Missing Family", "MissingFamily":
		return StatusMissingFamily, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Active reports whether the case still needs attention.
func (s Status) Active() bool {
	return s == StatusMissing || s == StatusCritical || s == StatusMissingFamily
}

func (s Status) String() string { return string(s) }

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
