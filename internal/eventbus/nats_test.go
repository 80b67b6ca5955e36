package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGenerationEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	ev := NewGenerationEvent("req-1", "completed", "sdxl", 1500*time.Millisecond, at)

	assert.Len(t, ev.ID, 36)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, int64(1500), ev.LatencyMs)
	assert.Equal(t, time.UTC, ev.At.Location())

	other := NewGenerationEvent("req-1", "completed", "sdxl", 0, at)
	assert.NotEqual(t, ev.ID, other.ID)
}

func TestGenerationEvent_JSONShape(t *testing.T) {
	ev := NewGenerationEvent("req-1", "no_json_found", "stable", 20*time.Millisecond, time.Unix(0, 0))

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.ElementsMatch(t, []string{"id", "request_id", "kind", "engine", "latency_ms", "at"}, keys(m))
	assert.Equal(t, "no_json_found", m["kind"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBus_NilPublish(t *testing.T) {
	var b *Bus
	err := b.PublishGeneration(context.Background(), GenerationEvent{})
	assert.Error(t, err)
	b.Close()
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", zap.NewNop())
	assert.Error(t, err)
}

func TestConnect_UnreachableNilLogger(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", nil)
	assert.Error(t, err)
}

func TestBus_StreamFallbackWithNilLogger(t *testing.T) {
	b := newBus(nil, nil)
	require.NotNil(t, b.logger)

	b.attachStream(nil, nats.ErrJetStreamNotEnabled)
	assert.Nil(t, b.js, "falls back to core publish")
}
