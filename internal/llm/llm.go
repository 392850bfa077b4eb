package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator turns one prompt into one narrative text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrGenerationBackend classifies every failure reported by a generation backend.
var ErrGenerationBackend = errors.New("generation backend error")

// GenerationError wraps a backend failure with the provider that produced it.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", ErrGenerationBackend, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrGenerationBackend, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationBackend }

// NewGenerationError wraps err unless it already carries a GenerationError.
func NewGenerationError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Provider: provider, Err: err}
}

// StatusError reports a non-2xx reply from a backend API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, msg)
}

// ErrEmptyCompletion is returned when a backend replies without text.
var ErrEmptyCompletion = errors.New("empty completion")

type promptKindKey struct{}

// WithPromptKind tags ctx with the narrative being generated, for logs and spans.
func WithPromptKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, promptKindKey{}, kind)
}

// PromptKindFromContext returns the tagged narrative kind, if any.
func PromptKindFromContext(ctx context.Context) string {
	kind, _ := ctx.Value(promptKindKey{}).(string)
	return kind
}
