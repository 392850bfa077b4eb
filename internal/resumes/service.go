package resumes

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/ids"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/tracing"
	"resume-builder/internal/uploads"
)

// Failure stages reported to metrics and logs.
const (
	stageUpload   = "upload"
	stageValidate = "validate"
	stageGenerate = "generate"
	stageStore    = "store"
)

// Uploader stores and removes headshots.
type Uploader interface {
	Save(ctx context.Context, recordID string, fh *multipart.FileHeader) (uploads.Asset, error)
	Delete(ctx context.Context, key string) error
}

// CreateInput is one create request: the text fields and the headshot part, which may be nil.
type CreateInput struct {
	Fields   RawFields
	Headshot *multipart.FileHeader
}

// Service runs the create pipeline and serves stored records.
type Service struct {
	Repo      Repo
	Uploads   Uploader
	Generator llm.Generator
	IDs       ids.Generator
	Now       func() time.Time
}

// Create stores the headshot, validates the fields, generates the three
// narratives concurrently and stores the assembled record. On any failure
// after the upload the stored headshot is removed and no record is kept.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	if s.Repo == nil || s.Uploads == nil || s.Generator == nil || s.IDs == nil {
		return Record{}, fmt.Errorf("%w: missing dependencies", ErrInternal)
	}

	ctx, span := tracing.Tracer().Start(ctx, "resume.create")
	defer span.End()

	start := time.Now()
	id := s.IDs.NewID()
	span.SetAttributes(attribute.String("resume.id", id))

	asset, err := s.Uploads.Save(ctx, id, in.Headshot)
	if err != nil {
		if !errors.Is(err, uploads.ErrMissingAttachment) && !errors.Is(err, uploads.ErrAttachmentTooLarge) {
			err = fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return Record{}, s.fail(span, stageUpload, id, err)
	}

	record, stage, err := s.build(ctx, id, asset, in.Fields)
	if err != nil {
		s.cleanup(ctx, id, asset.Key)
		return Record{}, s.fail(span, stage, id, err)
	}

	metrics.IncResumeCreated()
	telemetry.Info("resume.created", map[string]any{
		"resume_id":   id,
		"companies":   len(record.WorkHistory),
		"image_key":   asset.Key,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return record, nil
}

func (s *Service) build(ctx context.Context, id string, asset uploads.Asset, fields RawFields) (Record, string, error) {
	input, err := Validate(fields)
	if err != nil {
		return Record{}, stageValidate, err
	}

	narratives, err := s.generate(ctx, BuildPrompts(input))
	if err != nil {
		return Record{}, stageGenerate, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	record := Assemble(id, asset.URL, input, narratives, now())

	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, stageStore, fmt.Errorf("%w: store record: %w", ErrInternal, err)
	}
	return record, "", nil
}

// generate runs the three prompts concurrently. The first failure cancels the others.
func (s *Service) generate(ctx context.Context, prompts PromptSet) (Narratives, error) {
	var n Narratives
	jobs := []struct {
		kind   string
		prompt string
		dst    *string
	}{
		{KindObjective, prompts.Objective, &n.Objective},
		{KindKeypoints, prompts.Keypoints, &n.Keypoints},
		{KindJobResponsibilities, prompts.JobResponsibilities, &n.JobResponsibilities},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			text, err := s.Generator.Generate(llm.WithPromptKind(gctx, job.kind), job.prompt)
			if err != nil {
				return llm.NewGenerationError("", fmt.Errorf("%s: %w", job.kind, err))
			}
			*job.dst = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Narratives{}, err
	}
	return n, nil
}

func (s *Service) cleanup(ctx context.Context, id, key string) {
	if err := s.Uploads.Delete(context.WithoutCancel(ctx), key); err != nil {
		telemetry.Warn("resume.cleanup_failed", map[string]any{
			"resume_id": id,
			"image_key": key,
			"error":     err,
		})
	}
}

func (s *Service) fail(span trace.Span, stage, id string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	metrics.IncResumeFailed(stage)
	telemetry.Warn("resume.create_failed", map[string]any{
		"resume_id": id,
		"stage":     stage,
		"error":     err,
	})
	return err
}

// List returns every record in insertion order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("%w: missing dependencies", ErrInternal)
	}
	return s.Repo.List(ctx)
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, ErrNotFound
	}
	if s.Repo == nil {
		return Record{}, fmt.Errorf("%w: missing dependencies", ErrInternal)
	}
	return s.Repo.GetByID(ctx, id)
}
