package offline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler drains the offline queue on a cron schedule.
type Scheduler struct {
	c *cron.Cron
}

// NewScheduler registers a periodic sync. operator supplies the name
// recorded on each batch at run time.
func NewScheduler(spec string, s *Syncer, operator func(ctx context.Context) string) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		if _, err := s.Sync(ctx, operator(ctx)); err != nil {
			slog.Error("scheduled sync", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parse sync schedule %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) Entries() int { return len(s.c.Entries()) }
