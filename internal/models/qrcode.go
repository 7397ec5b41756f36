package models

import (
	"fmt"
	"strings"
	"time"
)

// QRCodeFor derives the display token printed on ID cards and wristbands.
// It is not a scannable payload.
func QRCodeFor(id, name string, at time.Time) string {
	clean := strings.ToUpper(strings.Join(strings.Fields(name), "-"))
	return fmt.Sprintf("%s-%s-%d", id, clean, at.Year())
}

// VictimID formats a sequence number as a registry ID.
func VictimID(seq int) string {
	return fmt.Sprintf("%s%03d", VictimIDPrefix, seq)
}
