// Package archive writes uploaded sync batches to object storage.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/pkg/dto"
)

// ObjectStore is the subset of storage.MinIOStore the archive needs.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

type Archiver struct {
	objects ObjectStore
	now     func() time.Time
}

func NewArchiver(objects ObjectStore) *Archiver {
	return &Archiver{objects: objects, now: time.Now}
}

// Key is the object name of a batch: sync/<upload date>/<batch id>.json.
// Batches without an upload time are filed under the archive date.
func (a *Archiver) Key(batch dto.SyncBatch) string {
	at := batch.UploadedAt
	if at.IsZero() {
		at = a.now()
	}
	return dayPrefix(at) + batch.ID + ".json"
}

func dayPrefix(t time.Time) string {
	return "sync/" + t.UTC().Format(time.DateOnly) + "/"
}

// Batches lists the object keys archived for the UTC day of t.
func (a *Archiver) Batches(ctx context.Context, t time.Time) ([]string, error) {
	keys, err := a.objects.ListObjects(ctx, dayPrefix(t))
	if err != nil {
		return nil, fmt.Errorf("list archived batches: %w", err)
	}
	return keys, nil
}

// Store writes batch as indented JSON. Writing the same batch twice
// overwrites the same object.
func (a *Archiver) Store(ctx context.Context, batch dto.SyncBatch) error {
	if batch.ID == "" {
		return fmt.Errorf("archive batch: missing id")
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	key := a.Key(batch)
	if err := a.objects.PutObject(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("archive batch %s: %w", batch.ID, err)
	}
	observability.ArchivedBatches.Inc()
	slog.Info("archived sync batch", "batch", batch.ID, "records", len(batch.Records), "key", key)
	return nil
}
