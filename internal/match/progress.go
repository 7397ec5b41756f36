package match

import (
	"context"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/your-org/disasterbio/internal/models"
)

// Progress yields 0 followed by increasing percentages, each step a random
// increment in (0,10], ending with exactly 100. It drives a progress bar only
// and is unrelated to the scan confidence.
func Progress(rng *rand.Rand) iter.Seq[float64] {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return func(yield func(float64) bool) {
		p := 0.0
		if !yield(p) {
			return
		}
		for p < 100 {
			p += (1 - rng.Float64()) * 10
			if p >= 100 {
				p = 100
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ScanDelay is the default duration of a scan in mode m.
func ScanDelay(m Mode) time.Duration {
	if m == ModeFace {
		return 4 * time.Second
	}
	return 3 * time.Second
}

// RunOptions configures a staged scan.
type RunOptions struct {
	Delay      time.Duration
	Tick       time.Duration
	Rand       *rand.Rand
	OnProgress func(percent float64)
}

// Run emits progress ticks while waiting opts.Delay, then performs the scan.
// Cancelling ctx aborts the wait with no result.
func Run(ctx context.Context, sim Simulator, mode Mode, records []models.VictimRecord, opts RunOptions) (Result, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Result{}, err
	}

	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()

	done := make(chan struct{})
	if opts.OnProgress != nil {
		go func() {
			defer close(done)
			tickProgress(tickCtx, opts)
		}()
	} else {
		close(done)
	}

	timer := time.NewTimer(opts.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		stopTicks()
		<-done
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	stopTicks()
	<-done
	return sim.Scan(ctx, mode, records)
}

func tickProgress(ctx context.Context, opts RunOptions) {
	tick := opts.Tick
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for p := range Progress(opts.Rand) {
		opts.OnProgress(p)
		if p >= 100 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
