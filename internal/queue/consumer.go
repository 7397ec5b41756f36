package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/disasterbio/pkg/dto"
)

var errMalformed = errors.New("malformed sync batch")

// BatchHandler processes one decoded sync batch. A returned error naks the
// message for redelivery.
type BatchHandler func(ctx context.Context, batch dto.SyncBatch) error

type Consumer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewConsumer(natsURL string) (*Consumer, error) {
	nc, js, err := connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &Consumer{nc: nc, js: js}, nil
}

// EnsureStreams lets the worker start before the API has created the stream.
func (c *Consumer) EnsureStreams(ctx context.Context) error {
	return ensureStream(ctx, c.js, SyncStreamConfig)
}

// ConsumeSync fetches sync batches until ctx is cancelled, handing each to
// workerCount goroutines. It blocks until every worker has returned.
func (c *Consumer) ConsumeSync(ctx context.Context, consumerName string, handler BatchHandler, workerCount int) error {
	if workerCount < 1 {
		workerCount = 1
	}

	stream, err := c.js.Stream(ctx, SyncStreamName)
	if err != nil {
		return fmt.Errorf("get stream %s: %w", SyncStreamName, err)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		FilterSubject: SyncSubjectBase + ".>",
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", consumerName, err)
	}

	msgCh := make(chan jetstream.Msg, workerCount*2)
	done := make(chan struct{})

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer func() { done <- struct{}{} }()
			for msg := range msgCh {
				if err := handleSync(ctx, msg, handler); err != nil {
					slog.Error("process sync batch", "worker", workerID, "error", err, "subject", msg.Subject())
					if !errors.Is(err, errMalformed) {
						_ = msg.Nak()
					}
				} else {
					_ = msg.Ack()
				}
			}
		}(i)
	}

	slog.Info("sync consumer started", "consumer", consumerName, "workers", workerCount)

	c.fetchLoop(ctx, cons, msgCh, workerCount)
	close(msgCh)
	for i := 0; i < workerCount; i++ {
		<-done
	}
	return nil
}

func (c *Consumer) fetchLoop(ctx context.Context, cons jetstream.Consumer, msgCh chan<- jetstream.Msg, size int) {
	for {
		if ctx.Err() != nil {
			return
		}

		batch, err := cons.Fetch(size, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("fetch sync batches", "error", err)
			time.Sleep(time.Second)
			continue
		}

		for msg := range batch.Messages() {
			select {
			case msgCh <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func handleSync(ctx context.Context, msg jetstream.Msg, handler BatchHandler) error {
	var batch dto.SyncBatch
	if err := json.Unmarshal(msg.Data(), &batch); err != nil {
		_ = msg.Term()
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return handler(ctx, batch)
}

func (c *Consumer) Close() {
	c.nc.Close()
}
