package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/tracing"
)

const (
	defaultRetryBaseDelay = 300 * time.Millisecond
	maxRetryDelay         = 5 * time.Second
)

// Retrying decorates a backend with a per-call timeout, bounded retries of
// transient failures, tracing and metrics. Every failure it returns is a
// *GenerationError.
type Retrying struct {
	Base       Generator
	Provider   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// NewRetrying wraps base for the named provider and model.
func NewRetrying(base Generator, provider, model string, timeout time.Duration, maxRetries int) *Retrying {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retrying{
		Base:       base,
		Provider:   provider,
		Model:      model,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		BaseDelay:  defaultRetryBaseDelay,
	}
}

func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	kind := PromptKindFromContext(ctx)
	ctx, span := tracing.Tracer().Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", r.Provider),
		attribute.String("llm.model", r.Model),
		attribute.String("llm.prompt_kind", kind),
	))
	defer span.End()

	start := time.Now()
	attempts := 0
	var lastErr error
retry:
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt)
			telemetry.Warn("llm.retry", map[string]any{
				"provider":    r.Provider,
				"prompt_kind": kind,
				"attempt":     attempt,
				"delay_ms":    delay.Milliseconds(),
				"error":       lastErr,
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				lastErr = ctx.Err()
				break retry
			}
		}

		attempts++
		text, err := r.once(ctx, prompt)
		if err == nil {
			r.record(kind, start, attempts, nil)
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil || !shouldRetry(err) {
			break
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "generation failed")
	r.record(kind, start, attempts, lastErr)
	return "", NewGenerationError(r.Provider, lastErr)
}

func (r *Retrying) once(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	text, err := r.Base.Generate(callCtx, prompt)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timeout after %s: %w", r.Provider, r.Timeout, context.DeadlineExceeded)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func (r *Retrying) backoff(attempt int) time.Duration {
	base := r.BaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	delay := base << (attempt - 1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return delay
}

func (r *Retrying) record(kind string, start time.Time, attempts int, err error) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.ObserveGenerationDurationMs(elapsed)
	fields := map[string]any{
		"provider":    r.Provider,
		"model":       r.Model,
		"prompt_kind": kind,
		"attempts":    attempts,
		"duration_ms": elapsed,
	}
	if err != nil {
		metrics.IncGeneration("error")
		fields["error"] = err
		telemetry.Error("llm.generate", fields)
		return
	}
	metrics.IncGeneration("ok")
	telemetry.Info("llm.generate", fields)
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 429 || statusErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "unexpected eof")
}

var _ Generator = (*Retrying)(nil)
