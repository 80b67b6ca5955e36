// Package eventbus publishes generation outcomes to NATS JetStream.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	StreamName       = "IMAGESPEC"
	SubjectGenerated = "imagespec.generated"
)

// GenerationEvent describes the outcome of one generation request. It never
// carries the prompt or the produced spec.
type GenerationEvent struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Kind      string    `json:"kind"`
	Engine    string    `json:"engine"`
	LatencyMs int64     `json:"latency_ms"`
	At        time.Time `json:"at"`
}

// NewGenerationEvent builds an event with a fresh ID.
func NewGenerationEvent(requestID, kind, engine string, latency time.Duration, at time.Time) GenerationEvent {
	return GenerationEvent{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Kind:      kind,
		Engine:    engine,
		LatencyMs: latency.Milliseconds(),
		At:        at.UTC(),
	}
}

// Bus owns the NATS connection and its JetStream context.
type Bus struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *zap.Logger
}

// Connect dials url and makes sure the event stream exists. When JetStream is
// unavailable the bus falls back to core NATS publishing. logger may be nil.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("promptspec-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	b := newBus(nc, logger)
	js, err := nc.JetStream()
	if err == nil {
		err = ensureStream(js)
	}
	b.attachStream(js, err)
	return b, nil
}

func newBus(nc *nats.Conn, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{conn: nc, logger: logger}
}

// attachStream switches publishing to JetStream unless setting up the stream
// failed.
func (b *Bus) attachStream(js nats.JetStreamContext, err error) {
	if err != nil {
		b.logger.Warn("event stream unavailable, using core publish", zap.Error(err))
		return
	}
	b.js = js
	b.logger.Info("NATS event bus initialized", zap.String("stream", StreamName))
}

func ensureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"imagespec.>"},
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

// PublishGeneration appends ev to the stream. The event ID doubles as the
// JetStream dedup ID.
func (b *Bus) PublishGeneration(ctx context.Context, ev GenerationEvent) error {
	if b == nil || b.conn == nil {
		return nats.ErrConnectionClosed
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if b.js == nil {
		return b.conn.Publish(SubjectGenerated, data)
	}
	_, err = b.js.Publish(SubjectGenerated, data, nats.MsgId(ev.ID), nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}
