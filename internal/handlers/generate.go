package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptspec/api/internal/eventbus"
	"github.com/promptspec/api/internal/imagespec"
	"github.com/promptspec/api/internal/metrics"
	"github.com/promptspec/api/internal/middleware"
)

// EventPublisher receives one event per finished generation request.
type EventPublisher interface {
	PublishGeneration(ctx context.Context, ev eventbus.GenerationEvent) error
}

// GenerateHandler serves POST /api/v1/generate.
type GenerateHandler struct {
	pipeline *imagespec.Pipeline
	metrics  *metrics.Collector
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewGenerateHandler creates the handler. collector, events and logger may be nil.
func NewGenerateHandler(pipeline *imagespec.Pipeline, collector *metrics.Collector, events EventPublisher, logger *zap.Logger) *GenerateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateHandler{
		pipeline: pipeline,
		metrics:  collector,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateRequest is the request body. Both fields are loosely typed: a
// non-string prompt counts as empty and a non-string engine as absent.
type GenerateRequest struct {
	Prompt any `json:"prompt" swaggertype:"string" example:"a red fox in snow, golden hour"`
	Engine any `json:"engine,omitempty" swaggertype:"string" example:"sdxl"`
}

// GenerateResponse is returned when the pipeline completes.
type GenerateResponse struct {
	OK     bool                 `json:"ok"`
	Result *imagespec.ImageSpec `json:"result"`
}

// Generate converts a free-form description into an image spec
// @Summary Generate an image spec
// @Description Sends the description to the language model and returns the validated, engine-enforced spec.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Description and optional engine"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "Request body must be a JSON object")
		return
	}

	start := h.now()
	engine := h.pipeline.AcceptEngine(req.Engine)

	spec, err := h.pipeline.Generate(c.Request.Context(), imagespec.GenerationRequest{
		RawPrompt:        req.Prompt,
		EnginePreference: req.Engine,
	})
	latency := h.now().Sub(start)

	if err != nil {
		h.fail(c, err, engine, latency)
		return
	}

	middleware.MarkProviderResult(c, true)
	h.finish(c, metrics.OutcomeCompleted, engine, latency)
	c.JSON(http.StatusOK, GenerateResponse{OK: true, Result: spec})
}

func (h *GenerateHandler) fail(c *gin.Context, err error, engine string, latency time.Duration) {
	var perr *imagespec.Error
	if !errors.As(err, &perr) {
		perr = &imagespec.Error{Kind: imagespec.KindInternal, Err: err}
	}

	switch perr.Kind {
	case imagespec.KindProviderError, imagespec.KindEmptyProviderResponse:
		middleware.MarkProviderResult(c, false)
	case imagespec.KindNoJSONFound, imagespec.KindInvalidJSON, imagespec.KindSchemaViolation:
		// the provider answered; the model output was bad
		middleware.MarkProviderResult(c, true)
	}

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("kind", perr.Kind.String()),
		zap.String("engine", engine),
	}
	switch {
	case perr.Kind == imagespec.KindEmptyPrompt:
		h.logger.Info("generation rejected", fields...)
	case perr.Kind.Upstream():
		h.logger.Warn("generation failed upstream", fields...)
	default:
		h.logger.Error("generation failed", append(fields, zap.Error(err))...)
	}

	h.finish(c, perr.Kind.String(), engine, latency)

	if perr.Kind == imagespec.KindInternal {
		middleware.InternalError(c, "Internal server error")
		return
	}
	code, message, extra := errorBody(perr)
	middleware.RespondError(c, perr.Kind.Status(), code, message, extra)
}

// errorBody maps a pipeline failure to its envelope. Internal failures carry
// no detail.
func errorBody(e *imagespec.Error) (string, string, gin.H) {
	switch e.Kind {
	case imagespec.KindEmptyPrompt:
		return middleware.ErrCodeEmptyPrompt, "Prompt is required", nil
	case imagespec.KindMisconfigured:
		return middleware.ErrCodeMisconfigured, "Server is missing provider credentials", nil
	case imagespec.KindProviderError:
		return middleware.ErrCodeProviderError, "Provider request failed", gin.H{"detail": e.Detail}
	case imagespec.KindEmptyProviderResponse:
		return middleware.ErrCodeEmptyProviderResponse, "Provider returned no content", nil
	case imagespec.KindNoJSONFound:
		return middleware.ErrCodeNoJSONFound, "No JSON object found in provider response", gin.H{"raw": e.Raw}
	case imagespec.KindInvalidJSON:
		return middleware.ErrCodeInvalidJSON, "Provider returned invalid JSON", gin.H{"candidate": e.Candidate}
	case imagespec.KindSchemaViolation:
		return middleware.ErrCodeSchemaViolation, "Provider output does not match the image spec schema",
			gin.H{"issues": e.Violations, "object": e.Object}
	default:
		return middleware.ErrCodeInternalError, "Internal server error", nil
	}
}

func (h *GenerateHandler) finish(c *gin.Context, outcome, engine string, latency time.Duration) {
	middleware.SetOutcome(c, outcome)
	if h.metrics != nil {
		h.metrics.ObserveGeneration(outcome, engine)
	}
	if h.events == nil {
		return
	}

	ev := eventbus.NewGenerationEvent(middleware.GetRequestID(c), outcome, engine, latency, h.now())
	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.events.PublishGeneration(ctx, ev); err != nil {
			h.logger.Warn("failed to publish generation event",
				zap.String("request_id", ev.RequestID),
				zap.Error(err),
			)
		}
	}()
}
