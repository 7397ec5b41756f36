package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/notify"
)

var fastDelays = Delays{Fingerprint: 20 * time.Millisecond, Photo: 10 * time.Millisecond}

func validFields() Fields {
	return Fields{
		Name:     "Anita Desai",
		Age:      "34",
		Gender:   "Female",
		Location: "Relief Camp 2",
		Status:   "Missing Family",
	}
}

func TestBuildRecordDefaults(t *testing.T) {
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	rec, err := BuildRecord(validFields(), Flags{Photo: true}, Operator{Name: "Asha"}, now)
	require.NoError(t, err)

	assert.Equal(t, 34, rec.Age)
	assert.Equal(t, models.StatusMissingFamily, rec.Status)
	assert.Equal(t, models.DefaultRescueLocation, rec.RescueLocation)
	assert.Equal(t, models.DefaultMedicalNeeds, rec.MedicalNeeds)
	assert.Equal(t, models.DefaultBloodType, rec.BloodType)
	assert.Equal(t, models.DefaultAllergies, rec.Allergies)
	assert.Equal(t, models.DefaultContact, rec.FamilyContact)
	assert.Equal(t, models.DefaultContact, rec.EmergencyContact)
	assert.Equal(t, models.DefaultNotes, rec.Notes)
	assert.Equal(t, "Mobile Team - Asha", rec.RegisteredBy)
	assert.Equal(t, []string{}, rec.Languages)
	assert.True(t, rec.BiometricCaptured)
	assert.Equal(t, now, rec.Timestamp.Time)
	assert.Equal(t, rec.Timestamp, rec.LastUpdated)
	assert.Empty(t, rec.ID)
}

func TestBuildRecordValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Fields)
		kind  apperr.Kind
		field string
	}{
		{"missing name", func(f *Fields) { f.Name = "  " }, apperr.KindMissingRequiredField, "name"},
		{"missing age", func(f *Fields) { f.Age = nil }, apperr.KindMissingRequiredField, "age"},
		{"blank age", func(f *Fields) { f.Age = "" }, apperr.KindMissingRequiredField, "age"},
		{"missing status", func(f *Fields) { f.Status = "" }, apperr.KindMissingRequiredField, "status"},
		{"age not a number", func(f *Fields) { f.Age = "abc" }, apperr.KindInvalidField, "age"},
		{"negative age", func(f *Fields) { f.Age = -1.0 }, apperr.KindInvalidField, "age"},
		{"fractional age", func(f *Fields) { f.Age = 3.5 }, apperr.KindInvalidField, "age"},
		{"unknown status", func(f *Fields) { f.Status = "Lost" }, apperr.KindInvalidField, "status"},
		{"unsupported language", func(f *Fields) { f.Languages = []string{"Klingon"} }, apperr.KindInvalidField, "languages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.edit(&f)
			_, err := BuildRecord(f, Flags{}, Operator{}, time.Now())
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))

			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}

func TestBuildRecordAcceptsNumericAgeAndDedupesLanguages(t *testing.T) {
	f := validFields()
	f.Age = float64(0)
	f.Languages = []string{"Hindi", " Hindi", "English", ""}
	rec, err := BuildRecord(f, Flags{}, Operator{Name: "Ravi", Team: "Rescue Team Alpha"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Age)
	assert.Equal(t, []string{"Hindi", "English"}, rec.Languages)
	assert.False(t, rec.BiometricCaptured)
	assert.Equal(t, "Rescue Team Alpha - Ravi", rec.RegisteredBy)
}

func TestFlagsSummary(t *testing.T) {
	assert.Equal(t, "Ready to capture biometrics", Flags{}.Summary())
	assert.Equal(t, "Partial biometric capture", Flags{Fingerprint: true}.Summary())
	assert.Equal(t, "Partial biometric capture", Flags{Photo: true}.Summary())
	assert.Equal(t, "All biometrics captured", Flags{Fingerprint: true, Photo: true}.Summary())
}

func TestSessionCaptures(t *testing.T) {
	rec := &notify.Recorder{}
	s := NewSession("s1", rec, fastDelays)

	require.NoError(t, s.StartCapture(CaptureFingerprint))
	require.NoError(t, s.StartCapture(CapturePhoto))
	s.Wait()

	assert.Equal(t, Flags{Fingerprint: true, Photo: true}, s.Flags())
	assert.ElementsMatch(t, []string{
		"Capturing fingerprint...", "Taking photo...",
		"Photo captured successfully!", "Fingerprint captured successfully!",
	}, rec.Messages())
}

func TestWaitCoversJustStartedCapture(t *testing.T) {
	s := NewSession("s1", nil, Delays{Photo: 30 * time.Millisecond})
	require.NoError(t, s.StartCapture(CapturePhoto))
	s.Wait()
	assert.True(t, s.Flags().Photo)
}

func TestStartCaptureOnClosedSession(t *testing.T) {
	s := NewSession("s1", nil, fastDelays)
	s.Close()
	assert.ErrorIs(t, s.StartCapture(CapturePhoto), context.Canceled)
}

func TestSessionCaptureUnknownKind(t *testing.T) {
	s := NewSession("s1", nil, fastDelays)
	err := s.StartCapture("iris")
	assert.ErrorIs(t, err, apperr.ErrInvalidField)
}

func TestSessionResetCancelsPendingCapture(t *testing.T) {
	rec := &notify.Recorder{}
	s := NewSession("s1", rec, Delays{Fingerprint: time.Hour, Photo: time.Hour})

	done := make(chan error, 1)
	go func() { done <- s.Capture(context.Background(), CaptureFingerprint) }()

	require.Eventually(t, func() bool { return len(rec.Messages()) == 1 }, time.Second, time.Millisecond)
	s.Reset()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("capture not cancelled")
	}
	assert.Equal(t, Flags{}, s.Flags())
	assert.Equal(t, []string{"Capturing fingerprint..."}, rec.Messages())
}

func TestSessionCaptureHonoursCallerContext(t *testing.T) {
	s := NewSession("s1", nil, Delays{Fingerprint: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Capture(ctx, CaptureFingerprint)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.Flags().Fingerprint)
}

func TestClosedSessionRejectsCaptures(t *testing.T) {
	s := NewSession("s1", nil, fastDelays)
	s.Close()
	assert.ErrorIs(t, s.Capture(context.Background(), CapturePhoto), context.Canceled)
}

type fakeInserter struct {
	mu  sync.Mutex
	got []models.VictimRecord
	err error
}

func (f *fakeInserter) Insert(_ context.Context, rec models.VictimRecord) (models.VictimRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = models.VictimID(len(f.got) + 1)
	f.got = append(f.got, rec)
	return rec, f.err
}

func TestSessionSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("success resets the form", func(t *testing.T) {
		rec := &notify.Recorder{}
		s := NewSession("s1", rec, fastDelays)
		require.NoError(t, s.Capture(ctx, CaptureFingerprint))
		s.SetFields(validFields())

		ins := &fakeInserter{}
		stored, err := s.Submit(ctx, ins, Operator{Name: "Asha"})
		require.NoError(t, err)
		assert.Equal(t, "VIC001", stored.ID)
		assert.True(t, stored.BiometricCaptured)
		assert.Equal(t, SessionState{ID: "s1", Summary: "Ready to capture biometrics"}, s.State())
		assert.Contains(t, rec.Messages(), "Victim registered successfully!")
	})

	t.Run("validation error keeps the form", func(t *testing.T) {
		s := NewSession("s1", nil, fastDelays)
		f := validFields()
		f.Name = ""
		s.SetFields(f)

		ins := &fakeInserter{}
		_, err := s.Submit(ctx, ins, Operator{})
		assert.ErrorIs(t, err, apperr.ErrMissingRequiredField)
		assert.Empty(t, ins.got)
		assert.Equal(t, f, s.State().Fields)
	})

	t.Run("persistence failure still registers", func(t *testing.T) {
		s := NewSession("s1", nil, fastDelays)
		s.SetFields(validFields())

		ins := &fakeInserter{err: apperr.Wrap(apperr.KindPersistence, errors.New("disk full"), "not saved")}
		stored, err := s.Submit(ctx, ins, Operator{})
		assert.ErrorIs(t, err, apperr.ErrPersistence)
		assert.Equal(t, "VIC001", stored.ID)
		assert.Equal(t, Fields{}, s.State().Fields)
	})
}

func TestSessionsEvictionCancelsCaptures(t *testing.T) {
	m := NewSessions(20*time.Millisecond, time.Hour, nil, Delays{Fingerprint: time.Hour})
	s := m.Open()

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	done := make(chan error, 1)
	go func() { done <- s.Capture(context.Background(), CaptureFingerprint) }()

	time.Sleep(40 * time.Millisecond)
	m.Expire()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("eviction did not cancel the capture")
	}
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestSessionsClose(t *testing.T) {
	m := NewSessions(time.Minute, time.Minute, nil, fastDelays)
	s := m.Open()
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.Close(s.ID))
	assert.False(t, m.Close(s.ID))
	assert.Equal(t, 0, m.Count())
}
