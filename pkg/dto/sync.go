package dto

import (
	"time"

	"github.com/your-org/disasterbio/internal/models"
)

// SyncBatch is one upload of records registered while offline. It is the
// payload published on the sync subject and archived by the worker.
type SyncBatch struct {
	ID         string                `json:"id"`
	Operator   string                `json:"operator"`
	UploadedAt time.Time             `json:"uploaded_at"`
	Records    []models.VictimRecord `json:"records"`
}

type SyncStatusResponse struct {
	LastSync *string `json:"last_sync"`
	Pending  int     `json:"pending"`
}

type SyncResponse struct {
	LastSync string `json:"last_sync"`
	Uploaded int    `json:"uploaded"`
	Pending  int    `json:"pending"`
}
