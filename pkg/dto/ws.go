package dto

// WS message types.
const (
	WSTypeNotification = "notification"
	WSTypeScanProgress = "scan_progress"
)

// WSMessage is the envelope of everything pushed over /v1/ws.
type WSMessage struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Data  any    `json:"data"`
}

type ScanProgress struct {
	Mode    string  `json:"mode"`
	Percent float64 `json:"percent"`
}
