package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/report"
	"github.com/your-org/disasterbio/internal/storage"
)

// flakyBlob fails every Put while putErr is set.
type flakyBlob struct {
	*storage.MemoryStore
	putErr error
}

func (b *flakyBlob) Put(ctx context.Context, key string, value []byte) error {
	if b.putErr != nil {
		return b.putErr
	}
	return b.MemoryStore.Put(ctx, key, value)
}

type StoreSuite struct {
	suite.Suite
	blob  *flakyBlob
	store *Store
	ctx   context.Context
	clock time.Time
}

func (s *StoreSuite) SetupTest() {
	s.blob = &flakyBlob{MemoryStore: storage.NewMemoryStore()}
	s.clock = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewStore(s.blob, WithClock(func() time.Time { return s.clock }))
	s.ctx = context.Background()
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) newRecord(name string) models.VictimRecord {
	return models.VictimRecord{
		Name:     name,
		Age:      30,
		Gender:   "Female",
		Location: "Relief Camp 4",
		Status:   models.StatusMissing,
		Notes:    models.DefaultNotes,
	}
}

func (s *StoreSuite) persisted() []models.VictimRecord {
	data, err := s.blob.Get(s.ctx, storage.KeyVictims)
	s.Require().NoError(err)
	var records []models.VictimRecord
	s.Require().NoError(json.Unmarshal(data, &records))
	return records
}

// TestLoad verifies seeding and restoring of the persisted collection.
func (s *StoreSuite) TestLoad() {
	s.Run("seeds empty state once and persists the seed", func() {
		records, err := s.store.Load(s.ctx)
		s.Require().NoError(err)
		s.Len(records, 3)
		s.Equal("VIC001", records[0].ID)
		s.Len(s.persisted(), 3)
	})

	s.Run("restores a cleared store without reseeding", func() {
		s.Require().NoError(s.store.Clear(s.ctx))

		reopened := NewStore(s.blob)
		records, err := reopened.Load(s.ctx)
		s.Require().NoError(err)
		s.Empty(records)
	})

	s.Run("reseeds when the blob is unparsable", func() {
		s.Require().NoError(s.blob.Put(s.ctx, storage.KeyVictims, []byte("{not json")))

		records, err := NewStore(s.blob).Load(s.ctx)
		s.Require().NoError(err)
		s.Len(records, 3)
	})
}

// TestInsert verifies ID assignment, ordering and persistence of new records.
func (s *StoreSuite) TestInsert() {
	s.Run("assigns the next id and prepends", func() {
		_, err := s.store.Load(s.ctx)
		s.Require().NoError(err)

		rec, err := s.store.Insert(s.ctx, s.newRecord("Anita Desai"))
		s.Require().NoError(err)
		s.Equal("VIC004", rec.ID)
		s.Equal("VIC004-ANITA-DESAI-2025", rec.QRCode)
		s.Equal(s.clock, rec.Timestamp.Time)
		s.Equal(rec.Timestamp, rec.LastUpdated)

		all := s.store.All()
		s.Len(all, 4)
		s.Equal("VIC004", all[0].ID)
		s.Equal("VIC004", s.persisted()[0].ID)
	})

	s.Run("size grows by one and ids stay unique", func() {
		for i := 0; i < 20; i++ {
			before := s.store.Count()
			rec, err := s.store.Insert(s.ctx, s.newRecord("Person"))
			s.Require().NoError(err)
			s.Equal(before+1, s.store.Count())

			seen := 0
			for _, r := range s.store.All() {
				if r.ID == rec.ID {
					seen++
				}
			}
			s.Equal(1, seen, rec.ID)
		}
	})
}

// TestIDAfterImport covers the collision the count-based formula would produce.
func (s *StoreSuite) TestIDAfterImport() {
	imported := models.SeedRecords()[2:] // only VIC003
	imported[0].ID = "VIC002"
	s.Require().NoError(s.store.ReplaceAll(s.ctx, []models.VictimRecord{imported[0]}))

	s.Equal("VIC003", s.store.NextID())

	s.Require().NoError(s.store.ReplaceAll(s.ctx, []models.VictimRecord{
		{ID: "VIC002", Name: "A"}, {ID: "VIC003", Name: "B"},
	}))
	rec, err := s.store.Insert(s.ctx, s.newRecord("C"))
	s.Require().NoError(err)
	s.Equal("VIC004", rec.ID)
}

// TestUpdateNotes verifies note edits and their timestamps.
func (s *StoreSuite) TestUpdateNotes() {
	_, err := s.store.Load(s.ctx)
	s.Require().NoError(err)

	s.Run("updates notes and lastUpdated", func() {
		rec, err := s.store.UpdateNotes(s.ctx, "VIC002", "Reunited with husband")
		s.Require().NoError(err)
		s.Equal("Reunited with husband", rec.Notes)
		s.Equal(s.clock, rec.LastUpdated.Time)

		got, ok := s.store.Get("VIC002")
		s.Require().True(ok)
		s.Equal("Reunited with husband", got.Notes)
		s.Equal("Reunited with husband", s.persisted()[1].Notes)
	})

	s.Run("is idempotent apart from a non-decreasing lastUpdated", func() {
		first, err := s.store.UpdateNotes(s.ctx, "VIC001", "same text")
		s.Require().NoError(err)

		s.clock = s.clock.Add(time.Minute)
		second, err := s.store.UpdateNotes(s.ctx, "VIC001", "same text")
		s.Require().NoError(err)

		s.False(second.LastUpdated.Before(first.LastUpdated.Time))
		first.LastUpdated = second.LastUpdated
		s.Equal(first, second)
	})

	s.Run("never moves lastUpdated backwards", func() {
		s.clock = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		rec, err := s.store.UpdateNotes(s.ctx, "VIC003", "clock skew")
		s.Require().NoError(err)
		s.False(rec.LastUpdated.Before(rec.Timestamp.Time))
		s.Equal("2024-08-07T16:30:00.000Z", rec.LastUpdated.String())
	})

	s.Run("unknown id is not found and mutates nothing", func() {
		before := s.store.All()
		_, err := s.store.UpdateNotes(s.ctx, "VIC999", "x")
		s.ErrorIs(err, apperr.ErrNotFound)
		s.Equal(before, s.store.All())
	})
}

// TestReplaceAndClear verifies wholesale mutations.
func (s *StoreSuite) TestReplaceAndClear() {
	s.Run("replace rejects a nil collection", func() {
		err := s.store.ReplaceAll(s.ctx, nil)
		s.ErrorIs(err, apperr.ErrInvalidImport)
	})

	s.Run("replace persists", func() {
		s.Require().NoError(s.store.ReplaceAll(s.ctx, models.SeedRecords()[:1]))
		s.Len(s.store.All(), 1)
		s.Len(s.persisted(), 1)
	})

	s.Run("clear empties", func() {
		s.Require().NoError(s.store.Clear(s.ctx))
		s.Empty(s.store.All())
		s.Empty(s.persisted())
		s.Equal("VIC001", s.store.NextID())
	})
}

// TestPersistenceFailure verifies memory state survives a failed write.
func (s *StoreSuite) TestPersistenceFailure() {
	_, err := s.store.Load(s.ctx)
	s.Require().NoError(err)

	s.blob.putErr = errors.New("quota exceeded")
	rec, err := s.store.Insert(s.ctx, s.newRecord("Kept"))
	s.ErrorIs(err, apperr.ErrPersistence)
	s.Equal("VIC004", rec.ID)
	s.Len(s.store.All(), 4)
}

// TestSeedWriteFailureKeepsInsert verifies a failed seed write on first
// access does not swallow the record being inserted.
func (s *StoreSuite) TestSeedWriteFailureKeepsInsert() {
	s.blob.putErr = errors.New("quota exceeded")

	rec, err := s.store.Insert(s.ctx, s.newRecord("First Arrival"))
	s.ErrorIs(err, apperr.ErrPersistence)
	s.Equal("VIC004", rec.ID)
	s.Len(s.store.All(), 4)

	s.blob.putErr = nil
	_, err = s.store.UpdateNotes(s.ctx, rec.ID, "saved now")
	s.Require().NoError(err)
	s.Len(s.persisted(), 4)
}

func (s *StoreSuite) TestLoadSurvivesSeedWriteFailure() {
	s.blob.putErr = errors.New("quota exceeded")
	records, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 3)
}

// TestImportSurvivesRestart verifies an imported database is what the next
// process loads.
func (s *StoreSuite) TestImportSurvivesRestart() {
	records, err := report.FromJSON([]byte(`[{"id":"VIC101","name":"Imported Person","age":40,"status":"Safe","timestamp":"2025-02-01T08:00:00.000Z"}]`))
	s.Require().NoError(err)
	s.Require().NoError(s.store.ReplaceAll(s.ctx, records))

	reopened, err := NewStore(s.blob).Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(reopened, 1)
	s.Equal("VIC101", reopened[0].ID)
	s.Equal(models.StatusSafe, reopened[0].Status)
}

// TestSnapshotsAreDetached verifies callers cannot mutate the store.
func (s *StoreSuite) TestSnapshotsAreDetached() {
	records, err := s.store.Load(s.ctx)
	s.Require().NoError(err)

	records[0].Name = "Tampered"
	records[0].Languages[0] = "Tampered"

	got, _ := s.store.Get("VIC001")
	s.Equal("Rajesh Kumar", got.Name)
	s.Equal("Tamil", got.Languages[0])
}
