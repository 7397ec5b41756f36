// Package queue carries offline sync batches over NATS JetStream from the API
// process to the archive worker.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/disasterbio/pkg/dto"
)

const (
	SyncStreamName  = "SYNC"
	SyncSubjectBase = "sync"
	SyncSubject     = SyncSubjectBase + ".victims"
)

type Producer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(natsURL string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create jetstream context: %w", err)
	}
	return nc, js, nil
}

func NewProducer(natsURL string) (*Producer, error) {
	nc, js, err := connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &Producer{nc: nc, js: js}, nil
}

// SyncStreamConfig is the stream holding uploaded batches until the worker
// has archived them.
var SyncStreamConfig = jetstream.StreamConfig{
	Name:        SyncStreamName,
	Subjects:    []string{SyncSubjectBase + ".>"},
	Retention:   jetstream.WorkQueuePolicy,
	MaxAge:      7 * 24 * time.Hour,
	Storage:     jetstream.FileStorage,
	Duplicates:  10 * time.Minute,
	Description: "Offline victim records awaiting archive",
}

// EnsureStreams creates the sync stream if it doesn't exist.
// Retries up to 30 times (1s apart) to handle NATS startup delay.
func (p *Producer) EnsureStreams(ctx context.Context) error {
	return ensureStream(ctx, p.js, SyncStreamConfig)
}

func ensureStream(ctx context.Context, js jetstream.JetStream, cfg jetstream.StreamConfig) error {
	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := js.CreateOrUpdateStream(opCtx, cfg)
		cancel()
		if err == nil {
			slog.Info("ensured NATS stream", "name", cfg.Name)
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("create stream %s: %w (after %d attempts)", cfg.Name, err, maxAttempts)
		}
		slog.Warn("ensure NATS stream (retrying...)", "name", cfg.Name, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return nil
}

// Upload publishes batch on the sync subject. The batch ID doubles as the
// JetStream message ID so a retried upload is deduplicated.
func (p *Producer) Upload(ctx context.Context, batch dto.SyncBatch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal sync batch: %w", err)
	}

	_, err = p.js.Publish(ctx, SyncSubject, payload, jetstream.WithMsgID(batch.ID))
	if err != nil {
		return fmt.Errorf("publish sync batch: %w", err)
	}
	slog.Info("published sync batch", "batch", batch.ID, "records", len(batch.Records))
	return nil
}

// QueueDepth returns the number of batches not yet archived.
func (p *Producer) QueueDepth(ctx context.Context) (uint64, error) {
	stream, err := p.js.Stream(ctx, SyncStreamName)
	if err != nil {
		return 0, err
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.State.Msgs, nil
}

func (p *Producer) Ping() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

func (p *Producer) Close() {
	p.nc.Close()
}
