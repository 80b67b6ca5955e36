package imagespec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/promptspec/api/internal/imagespec")

// CompletionRequest is what the pipeline asks of a Provider.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Provider is the external language model. It returns the message text of a
// successful completion, or an error describing the provider-side failure.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Settings is the process-wide configuration the pipeline is built with.
type Settings struct {
	Engines   EnginePolicy
	MaxTokens int
}

// Pipeline turns a free-form description into an enforced ImageSpec.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	provider Provider
	settings Settings
	logger   *zap.Logger
}

// NewPipeline creates a pipeline. A nil provider means the server has no
// provider credential; every non-empty request then fails as misconfigured.
func NewPipeline(provider Provider, settings Settings, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{provider: provider, settings: settings, logger: logger}
}

// AcceptEngine returns the engine the server would enforce for pref.
func (p *Pipeline) AcceptEngine(pref any) string {
	return p.settings.Engines.Accept(pref)
}

// Generate runs one request end to end. Every failure is returned as *Error;
// nothing is retried.
func (p *Pipeline) Generate(ctx context.Context, req GenerationRequest) (spec *ImageSpec, err error) {
	ctx, span := tracer.Start(ctx, "imagespec.Generate")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic", zap.Any("panic", r))
			spec = nil
			err = &Error{Kind: KindInternal, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			span.SetStatus(codes.Error, KindOf(err).String())
			span.RecordError(err)
		}
	}()

	text := SanitizePrompt(req.RawPrompt)
	if text == "" {
		p.logger.Info("rejected empty prompt")
		return nil, &Error{Kind: KindEmptyPrompt}
	}

	engine := p.settings.Engines.Accept(req.EnginePreference)
	span.SetAttributes(
		attribute.String("imagespec.engine", engine),
		attribute.Int("imagespec.prompt_length", len(text)),
	)

	if p.provider == nil {
		p.logger.Error("provider credential missing")
		return nil, &Error{Kind: KindMisconfigured}
	}

	prompt := ComposePrompt(text, engine)
	raw, err := p.provider.Complete(ctx, CompletionRequest{
		Messages:    prompt.Messages(),
		Temperature: 0,
		MaxTokens:   p.settings.MaxTokens,
	})
	if err != nil {
		p.logger.Warn("provider call failed", zap.Error(err))
		return nil, &Error{Kind: KindProviderError, Detail: err.Error(), Err: err}
	}

	spec, err = FromResponse(raw, engine)
	if err != nil {
		p.logger.Warn("provider response rejected",
			zap.String("kind", KindOf(err).String()),
			zap.String("preview", Preview(raw, 200)),
		)
		return nil, err
	}
	return spec, nil
}

// FromResponse runs the post-provider steps over raw response text:
// extraction, parsing, schema validation and engine enforcement.
func FromResponse(raw, engine string) (*ImageSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &Error{Kind: KindEmptyProviderResponse}
	}

	candidate, err := ExtractObject(raw)
	if err != nil {
		return nil, &Error{Kind: KindNoJSONFound, Raw: raw, Err: err}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, &Error{Kind: KindInvalidJSON, Candidate: candidate, Err: err}
	}

	if violations := Validate(obj); len(violations) > 0 {
		return nil, &Error{Kind: KindSchemaViolation, Violations: violations, Object: obj}
	}

	// Decode only the validated keys. encoding/json matches struct fields
	// case-insensitively, so decoding the candidate itself could pick up
	// "Prompt" or "Details" that Validate never looked at.
	validated, err := json.Marshal(project(obj, imageSpecSchema))
	if err != nil {
		return nil, &Error{Kind: KindInternal, Err: fmt.Errorf("encode validated spec: %w", err)}
	}
	var spec ImageSpec
	if err := json.Unmarshal(validated, &spec); err != nil {
		return nil, &Error{Kind: KindInternal, Err: fmt.Errorf("decode validated spec: %w", err)}
	}
	return Enforce(&spec, engine), nil
}

// Preview returns at most n bytes of s, cut on a rune boundary, with an
// ellipsis when something was dropped.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
