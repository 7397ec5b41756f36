package intake

import (
	"context"
	"sync"
	"time"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/notify"
)

// Capture is one simulated biometric capture.
type Capture string

const (
	CaptureFingerprint Capture = "fingerprint"
	CapturePhoto       Capture = "photo"
)

// Delays are the fixed durations of the simulated captures.
type Delays struct {
	Fingerprint time.Duration
	Photo       time.Duration
}

// DefaultDelays match the field devices being imitated.
var DefaultDelays = Delays{Fingerprint: 2 * time.Second, Photo: 1500 * time.Millisecond}

// Inserter stores a finished record and returns it with its assigned ID.
type Inserter interface {
	Insert(ctx context.Context, rec models.VictimRecord) (models.VictimRecord, error)
}

// Session is an open registration form. Captures started in a session are
// cancelled by Reset and Close; a capture finishing after a reset does not
// touch the new form.
type Session struct {
	ID string

	notifier notify.Notifier
	delays   Delays
	now      func() time.Time

	mu      sync.Mutex
	fields  Fields
	flags   Flags
	gen     uint64
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
	closed  bool
}

func NewSession(id string, n notify.Notifier, d Delays) *Session {
	if n == nil {
		n = notify.Nop
	}
	s := &Session{ID: id, notifier: n, delays: d, now: time.Now}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// SessionState is a snapshot of the form.
type SessionState struct {
	ID      string `json:"id"`
	Fields  Fields `json:"fields"`
	Flags   Flags  `json:"flags"`
	Summary string `json:"summary"`
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{ID: s.ID, Fields: s.fields, Flags: s.flags, Summary: s.flags.Summary()}
}

func (s *Session) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// SetFields replaces the held form input.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// Capture runs one capture to completion: announce, wait, set the flag,
// confirm. Re-running a finished capture repeats the delay and confirms again.
func (s *Session) Capture(ctx context.Context, c Capture) error {
	if _, _, _, err := s.captureSpec(c); err != nil {
		return err
	}
	gen, sessCtx, err := s.begin()
	if err != nil {
		return err
	}
	return s.run(ctx, c, gen, sessCtx)
}

// StartCapture runs Capture in the background, bound to the session's
// lifetime. The capture counts as pending for Wait once StartCapture returns.
func (s *Session) StartCapture(c Capture) error {
	if _, _, _, err := s.captureSpec(c); err != nil {
		return err
	}
	gen, sessCtx, err := s.begin()
	if err != nil {
		return err
	}
	go func() { _ = s.run(context.Background(), c, gen, sessCtx) }()
	return nil
}

// begin registers a pending capture against the current form generation.
func (s *Session) begin() (uint64, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, nil, context.Canceled
	}
	s.pending.Add(1)
	return s.gen, s.ctx, nil
}

func (s *Session) run(ctx context.Context, c Capture, gen uint64, sessCtx context.Context) error {
	defer s.pending.Done()
	delay, pending, success, _ := s.captureSpec(c)

	notify.Send(ctx, s.notifier, notify.LevelInfo, s.ID, pending)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sessCtx.Done():
		return context.Canceled
	case <-timer.C:
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return context.Canceled
	}
	switch c {
	case CaptureFingerprint:
		s.flags.Fingerprint = true
	case CapturePhoto:
		s.flags.Photo = true
	}
	s.mu.Unlock()

	notify.Send(ctx, s.notifier, notify.LevelSuccess, s.ID, success)
	return nil
}

func (s *Session) captureSpec(c Capture) (time.Duration, string, string, error) {
	switch c {
	case CaptureFingerprint:
		return s.delays.Fingerprint, "Capturing fingerprint...", "Fingerprint captured successfully!", nil
	case CapturePhoto:
		return s.delays.Photo, "Taking photo...", "Photo captured successfully!", nil
	}
	return 0, "", "", apperr.Field(apperr.KindInvalidField, "capture", "unknown capture "+string(c))
}

// Wait blocks until no capture is in flight.
func (s *Session) Wait() {
	s.pending.Wait()
}

// Reset clears flags and fields and cancels pending captures.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.fields = Fields{}
	s.flags = Flags{}
	s.gen++
	s.cancel()
	if !s.closed {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
}

// Close cancels pending captures for good.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.resetLocked()
}

// Submit builds a record from the form and inserts it. On success the
// session is reset for the next registration. A persistence failure still
// counts as registered: the record lives in memory and the error is returned
// alongside it.
func (s *Session) Submit(ctx context.Context, ins Inserter, op Operator) (models.VictimRecord, error) {
	s.mu.Lock()
	rec, err := BuildRecord(s.fields, s.flags, op, s.now())
	s.mu.Unlock()
	if err != nil {
		return models.VictimRecord{}, err
	}

	stored, err := ins.Insert(ctx, rec)
	if err != nil && !apperr.IsKind(err, apperr.KindPersistence) {
		return models.VictimRecord{}, err
	}

	s.Reset()
	notify.Send(ctx, s.notifier, notify.LevelSuccess, s.ID, "Victim registered successfully!")
	return stored, err
}

// Status is the capture summary line for the form.
func (s *Session) Status() string {
	return s.Flags().Summary()
}
