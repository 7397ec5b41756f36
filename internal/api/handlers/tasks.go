package handlers

import (
	"context"
	"log/slog"
	"sync"
)

// Tasks runs simulated operations that outlive their request. They are
// cancelled when the server context ends.
type Tasks struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func NewTasks(ctx context.Context) *Tasks {
	return &Tasks{ctx: ctx}
}

func (t *Tasks) Go(name string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := fn(t.ctx); err != nil && t.ctx.Err() == nil {
			slog.Error("background task", "task", name, "error", err)
		}
	}()
}

// Wait blocks until every started task has returned.
func (t *Tasks) Wait() {
	t.wg.Wait()
}
