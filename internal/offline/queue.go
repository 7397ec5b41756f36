// Package offline keeps records registered without connectivity until they
// can be uploaded, and runs the cloud sync that drains them.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/internal/storage"
	"github.com/your-org/disasterbio/pkg/dto"
)

// Uploader delivers a batch to the remote side.
type Uploader interface {
	Upload(ctx context.Context, batch dto.SyncBatch) error
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, batch dto.SyncBatch) error

func (f UploaderFunc) Upload(ctx context.Context, batch dto.SyncBatch) error { return f(ctx, batch) }

// Queue is the pending upload list under storage.KeyOfflineVictims.
type Queue struct {
	blob storage.BlobStore
	now  func() time.Time
	mu   sync.Mutex
}

func NewQueue(blob storage.BlobStore) *Queue {
	return &Queue{blob: blob, now: time.Now}
}

// Enqueue appends rec to the pending list.
func (q *Queue) Enqueue(ctx context.Context, rec models.VictimRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.readLocked(ctx)
	if err != nil {
		return err
	}
	pending = append(pending, rec.Clone())
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal offline records: %w", err)
	}
	if err := q.blob.Put(ctx, storage.KeyOfflineVictims, data); err != nil {
		return fmt.Errorf("store offline records: %w", err)
	}
	return nil
}

// Pending returns the records waiting for upload, oldest first.
func (q *Queue) Pending(ctx context.Context) ([]models.VictimRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.readLocked(ctx)
}

// Drain uploads every pending record as one batch. The list is removed only
// after the upload succeeds; on failure it stays for the next attempt. An
// empty queue uploads nothing.
func (q *Queue) Drain(ctx context.Context, up Uploader, operator string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.readLocked(ctx)
	if err != nil {
		observability.SyncRuns.WithLabelValues("error").Inc()
		return 0, err
	}
	if len(pending) == 0 {
		observability.SyncRuns.WithLabelValues("empty").Inc()
		return 0, nil
	}

	batch := dto.SyncBatch{
		ID:         uuid.NewString(),
		Operator:   operator,
		UploadedAt: q.now().UTC(),
		Records:    pending,
	}
	if err := up.Upload(ctx, batch); err != nil {
		observability.SyncRuns.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("upload offline records: %w", err)
	}
	if err := q.blob.Delete(ctx, storage.KeyOfflineVictims); err != nil {
		observability.SyncRuns.WithLabelValues("error").Inc()
		return len(pending), fmt.Errorf("clear offline records: %w", err)
	}
	observability.SyncRuns.WithLabelValues("ok").Inc()
	return len(pending), nil
}

func (q *Queue) readLocked(ctx context.Context) ([]models.VictimRecord, error) {
	data, err := q.blob.Get(ctx, storage.KeyOfflineVictims)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.VictimRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read offline records: %w", err)
	}
	var pending []models.VictimRecord
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("decode offline records: %w", err)
	}
	if pending == nil {
		pending = []models.VictimRecord{}
	}
	return pending, nil
}
