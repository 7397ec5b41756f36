package notify

import (
	"context"
	"time"
)

// Action is an operation with no real backend: it announces itself, waits a
// fixed delay, then reports success.
type Action struct {
	Topic   string
	Pending string
	Success string
	Delay   time.Duration
}

// Simulate runs a. Cancelling ctx before the delay elapses suppresses the
// success message and returns ctx.Err().
func Simulate(ctx context.Context, n Notifier, a Action) error {
	Send(ctx, n, LevelInfo, a.Topic, a.Pending)

	timer := time.NewTimer(a.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	Send(ctx, n, LevelSuccess, a.Topic, a.Success)
	return nil
}

// Actions of the field console that only acknowledge the operator.
func PrintIDCard(id string, d time.Duration) Action {
	return Action{Topic: id, Pending: "Printing ID card...", Success: "ID card printed successfully!", Delay: d}
}

func PrintWristband(id string, d time.Duration) Action {
	return Action{Topic: id, Pending: "Printing wristband...", Success: "Wristband printed successfully!", Delay: d}
}

func PDFReport(d time.Duration) Action {
	return Action{Topic: "reports", Pending: "Generating PDF report...", Success: "PDF report generated successfully!", Delay: d}
}

func SendToAuthorities(d time.Duration) Action {
	return Action{Topic: "reports", Pending: "Sending report to authorities...", Success: "Report sent to NDMA and local authorities!", Delay: d}
}
