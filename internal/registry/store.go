// Package registry owns the victim record collection: ID assignment,
// ordering, and persistence to the blob store.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/internal/storage"
)

// Store holds the records newest first. Every mutation persists the full
// snapshot before it returns, so a following read sees the latest write.
type Store struct {
	blob storage.BlobStore
	now  func() time.Time

	mu      sync.RWMutex
	loaded  bool
	records []models.VictimRecord
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(blob storage.BlobStore, opts ...Option) *Store {
	s := &Store{blob: blob, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection on first call. An absent or
// unparsable blob seeds the sample records and persists them, so seeding
// happens once per empty persisted state. Only a failed read is an error;
// a failed seed write is logged and counted.
func (s *Store) Load(ctx context.Context) ([]models.VictimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return models.CloneAll(s.records), nil
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := s.blob.Get(ctx, storage.KeyVictims)
	switch {
	case err == nil:
		var records []models.VictimRecord
		if jerr := json.Unmarshal(data, &records); jerr == nil && records != nil {
			s.records = records
			s.loaded = true
			observability.RecordsStored.Set(float64(len(s.records)))
			return nil
		} else if jerr != nil {
			slog.Warn("persisted records unreadable, reseeding", "error", jerr)
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		return fmt.Errorf("load records: %w", err)
	}

	s.records = models.SeedRecords()
	s.loaded = true
	slog.Info("seeded registry with sample records", "count", len(s.records))
	// The next successful write saves the seed along with it.
	_ = s.persistLocked(ctx)
	return nil
}

// All returns a copy of the collection in store order.
func (s *Store) All() []models.VictimRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.records)
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.VictimRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return models.VictimRecord{}, false
}

// NextID returns the ID the next insert would receive.
func (s *Store) NextID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextIDLocked()
}

// nextIDLocked applies "VIC" + zero-padded (count+1). When an import or
// replace left that ID in use, the sequence advances to the first free one.
func (s *Store) nextIDLocked() string {
	taken := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		taken[r.ID] = struct{}{}
	}
	for seq := len(s.records) + 1; ; seq++ {
		id := models.VictimID(seq)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

// Insert assigns an ID to rec, prepends it and persists. The QR code is
// derived from the final ID.
func (s *Store) Insert(ctx context.Context, rec models.VictimRecord) (models.VictimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return models.VictimRecord{}, err
	}

	rec = rec.Clone()
	rec.ID = s.nextIDLocked()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = models.NewInstant(s.now())
	}
	if rec.LastUpdated.Before(rec.Timestamp.Time) {
		rec.LastUpdated = rec.Timestamp
	}
	rec.QRCode = models.QRCodeFor(rec.ID, rec.Name, rec.Timestamp.Time)

	s.records = append([]models.VictimRecord{rec}, s.records...)
	observability.RecordsRegistered.Inc()

	return rec.Clone(), s.persistLocked(ctx)
}

// UpdateNotes replaces the notes of one record. An unknown id is reported as
// apperr.ErrNotFound and changes nothing.
func (s *Store) UpdateNotes(ctx context.Context, id, text string) (models.VictimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return models.VictimRecord{}, err
	}

	i := s.indexLocked(id)
	if i < 0 {
		return models.VictimRecord{}, apperr.Newf(apperr.KindNotFound, "victim %s not found", id)
	}

	rec := &s.records[i]
	rec.Notes = text
	updated := models.NewInstant(s.now())
	if updated.Before(rec.LastUpdated.Time) {
		updated = rec.LastUpdated
	}
	if updated.Before(rec.Timestamp.Time) {
		updated = rec.Timestamp
	}
	rec.LastUpdated = updated

	return rec.Clone(), s.persistLocked(ctx)
}

// ReplaceAll swaps the whole collection, as done by a database import.
func (s *Store) ReplaceAll(ctx context.Context, records []models.VictimRecord) error {
	if records == nil {
		return apperr.New(apperr.KindInvalidImport, "import must be a list of records")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = models.CloneAll(records)
	s.loaded = true
	return s.persistLocked(ctx)
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []models.VictimRecord{}
	s.loaded = true
	return s.persistLocked(ctx)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the snapshot. On failure the in-memory state is kept
// and the error is reported as apperr.KindPersistence.
func (s *Store) persistLocked(ctx context.Context) error {
	observability.RecordsStored.Set(float64(len(s.records)))

	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := s.blob.Put(ctx, storage.KeyVictims, data); err != nil {
		observability.PersistFailures.Inc()
		slog.Error("persist records", "error", err, "count", len(s.records))
		return apperr.Wrap(apperr.KindPersistence, err, "records kept in memory but not saved")
	}
	return nil
}
