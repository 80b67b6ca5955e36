package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptspec/api/internal/imagespec"
)

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Complete(context.Context, imagespec.CompletionRequest) (string, error) {
	return s.text, s.err
}

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("test", prometheus.NewRegistry())

	c.ObserveHTTP("POST", "/api/v1/generate", 200, 10*time.Millisecond)
	c.ObserveHTTP("POST", "/api/v1/generate", 200, 20*time.Millisecond)
	c.ObserveGeneration(OutcomeCompleted, "stable")
	c.ObserveGeneration("no_json_found", "stable")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("POST", "/api/v1/generate", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generationsTotal.WithLabelValues(OutcomeCompleted, "stable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generationsTotal.WithLabelValues("no_json_found", "stable")))
}

func TestCollector_InstrumentProvider(t *testing.T) {
	c := NewCollector("test", prometheus.NewRegistry())
	ctx := context.Background()

	text, err := c.InstrumentProvider(stubProvider{text: "{}"}).Complete(ctx, imagespec.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "{}", text)

	_, err = c.InstrumentProvider(stubProvider{err: errors.New("down")}).Complete(ctx, imagespec.CompletionRequest{})
	assert.EqualError(t, err, "down")

	_, _ = c.InstrumentProvider(stubProvider{}).Complete(ctx, imagespec.CompletionRequest{})

	assert.Equal(t, 3, testutil.CollectAndCount(c.providerDuration))
}
