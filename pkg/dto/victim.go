package dto

import (
	"github.com/your-org/disasterbio/internal/intake"
	"github.com/your-org/disasterbio/internal/models"
)

type VictimListResponse struct {
	Victims []models.VictimRecord `json:"victims"`
	Total   int                   `json:"total"`
	Query   string                `json:"query,omitempty"`
}

type UpdateNotesRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

type ScanRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type ScanResponse struct {
	Victim     models.VictimRecord `json:"victim"`
	Confidence int                 `json:"confidence"`
	Band       string              `json:"band"`
	Mode       string              `json:"mode"`
	Message    string              `json:"message"`
}

type SessionResponse struct {
	ID      string        `json:"id"`
	Fields  intake.Fields `json:"fields"`
	Flags   intake.Flags  `json:"flags"`
	Summary string        `json:"summary"`
}

// VictimResponse carries a changed record. Warning is set when the change
// is held in memory but could not be saved.
type VictimResponse struct {
	Victim  models.VictimRecord `json:"victim"`
	Warning string              `json:"warning,omitempty"`
}

type ImportResponse struct {
	Imported int    `json:"imported"`
	Warning  string `json:"warning,omitempty"`
}

type OperatorRequest struct {
	Name string `json:"name"`
}

type OperatorResponse struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Team    string `json:"team"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}
