package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/notify"
	"github.com/your-org/disasterbio/internal/storage"
)

const syncTopic = "sync"

// Result describes one finished sync.
type Result struct {
	LastSync models.Instant
	Uploaded int
	Pending  int
}

// Syncer runs the cloud sync: it announces itself, waits the configured
// delay, drains the offline queue when an uploader is configured, and
// records the sync time under storage.KeyLastSync.
type Syncer struct {
	blob     storage.BlobStore
	queue    *Queue
	uploader Uploader
	notifier notify.Notifier
	delay    time.Duration
	now      func() time.Time
}

// NewSyncer builds a Syncer. A nil uploader makes the sync purely simulated.
func NewSyncer(blob storage.BlobStore, q *Queue, up Uploader, n notify.Notifier, delay time.Duration) *Syncer {
	if n == nil {
		n = notify.Nop
	}
	return &Syncer{blob: blob, queue: q, uploader: up, notifier: n, delay: delay, now: time.Now}
}

// Sync performs one sync on behalf of operator. A cancelled context or a
// failed upload leaves lastSync unchanged.
func (s *Syncer) Sync(ctx context.Context, operator string) (Result, error) {
	notify.Send(ctx, s.notifier, notify.LevelInfo, syncTopic, "Syncing data to cloud...")

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	var res Result
	if s.uploader != nil {
		n, err := s.queue.Drain(ctx, s.uploader, operator)
		if err != nil {
			notify.Send(ctx, s.notifier, notify.LevelError, syncTopic, "Sync failed, records kept for the next attempt")
			return Result{}, err
		}
		res.Uploaded = n
	}

	pending, err := s.queue.Pending(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Pending = len(pending)

	res.LastSync = models.NewInstant(s.now())
	if err := s.blob.Put(ctx, storage.KeyLastSync, []byte(res.LastSync.String())); err != nil {
		return Result{}, fmt.Errorf("store last sync: %w", err)
	}

	notify.Send(ctx, s.notifier, notify.LevelSuccess, syncTopic, "Data synced successfully!")
	slog.Info("sync finished", "uploaded", res.Uploaded, "pending", res.Pending)
	return res, nil
}

// LastSync returns the time of the last successful sync, if any.
func (s *Syncer) LastSync(ctx context.Context) (models.Instant, bool, error) {
	data, err := s.blob.Get(ctx, storage.KeyLastSync)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Instant{}, false, nil
	}
	if err != nil {
		return models.Instant{}, false, fmt.Errorf("read last sync: %w", err)
	}
	at, err := models.ParseInstant(string(data))
	if err != nil {
		return models.Instant{}, false, err
	}
	return at, true, nil
}

func (s *Syncer) Queue() *Queue { return s.queue }
