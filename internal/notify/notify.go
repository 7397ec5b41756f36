// Package notify carries user-facing notifications (the pending and success
// messages of simulated operations) from the domain to whatever transport
// renders them.
package notify

import (
	"context"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Topic   string    `json:"topic,omitempty"` // session or operation the message belongs to
	Time    time.Time `json:"time"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Nop discards notifications.
var Nop Notifier = Func(func(context.Context, Notification) {})

// Recorder keeps every notification, for tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	for i, n := range r.items {
		out[i] = n.Message
	}
	return out
}

// Send builds and delivers one notification stamped with the current time.
func Send(ctx context.Context, n Notifier, level Level, topic, msg string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: level, Message: msg, Topic: topic, Time: time.Now()})
}
