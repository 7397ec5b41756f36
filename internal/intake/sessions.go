package intake

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/your-org/disasterbio/internal/notify"
	"github.com/your-org/disasterbio/internal/observability"
)

// Sessions holds open registration sessions. A session idle for longer than
// the configured timeout is evicted and its pending captures cancelled.
type Sessions struct {
	cache    *gocache.Cache
	idle     time.Duration
	notifier notify.Notifier
	delays   Delays
}

func NewSessions(idle, cleanup time.Duration, n notify.Notifier, d Delays) *Sessions {
	c := gocache.New(idle, cleanup)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
		}
		observability.OpenSessions.Dec()
	})
	return &Sessions{cache: c, idle: idle, notifier: n, delays: d}
}

// Open starts a new empty session.
func (m *Sessions) Open() *Session {
	s := NewSession(uuid.NewString(), m.notifier, m.delays)
	m.cache.Set(s.ID, s, gocache.DefaultExpiration)
	observability.OpenSessions.Inc()
	return s
}

// Get returns an open session and extends its idle deadline.
func (m *Sessions) Get(id string) (*Session, bool) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.cache.Set(id, s, gocache.DefaultExpiration)
	return s, true
}

// Close ends a session and cancels its captures.
func (m *Sessions) Close(id string) bool {
	if _, ok := m.cache.Get(id); !ok {
		return false
	}
	m.cache.Delete(id)
	return true
}

func (m *Sessions) Count() int {
	return m.cache.ItemCount()
}

// Expire evicts sessions past their idle deadline now rather than at the
// next cleanup tick.
func (m *Sessions) Expire() {
	m.cache.DeleteExpired()
}
