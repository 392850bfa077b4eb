package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

// FieldName is the multipart field carrying the headshot.
const FieldName = "headshotImage"

// DefaultMaxBytes bounds a headshot when no limit is configured.
const DefaultMaxBytes int64 = 5 << 20

// Asset references a stored headshot.
type Asset struct {
	Key       string
	URL       string
	MimeType  string
	SizeBytes int64
}

// Service persists headshots to an object store.
type Service struct {
	Store    object.ObjectStore
	MaxBytes int64
	Now      func() time.Time
}

// NewService constructs a Service with the given size limit.
func NewService(store object.ObjectStore, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{Store: store, MaxBytes: maxBytes, Now: time.Now}
}

// FileName builds the stored name for a headshot: <recordID>-<unixMillis><ext>.
func FileName(recordID string, at time.Time, original string) string {
	return recordID + "-" + strconv.FormatInt(at.UnixMilli(), 10) + util.SafeExt(original)
}

// Save stores the attachment under a name derived from recordID and returns its reference.
func (s *Service) Save(ctx context.Context, recordID string, fh *multipart.FileHeader) (Asset, error) {
	if fh == nil {
		return Asset{}, ErrMissingAttachment
	}
	maxBytes := s.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if fh.Size > maxBytes {
		return Asset{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, fh.Size, maxBytes)
	}

	file, err := fh.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("open attachment: %w", err)
	}
	defer file.Close()

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	key := FileName(recordID, now(), fh.Filename)

	limited := &limitedReader{r: file, remaining: maxBytes}
	obj, err := s.Store.Save(ctx, key, limited)
	if err != nil {
		if errors.Is(err, ErrAttachmentTooLarge) {
			_ = s.Store.Delete(context.WithoutCancel(ctx), key)
			return Asset{}, err
		}
		return Asset{}, fmt.Errorf("store attachment: %w", err)
	}

	telemetry.Info("upload.saved", map[string]any{
		"resume_id":  recordID,
		"key":        obj.Key,
		"mime_type":  obj.MimeType,
		"size_bytes": obj.SizeBytes,
	})
	return Asset{
		Key:       obj.Key,
		URL:       s.Store.URL(obj.Key),
		MimeType:  obj.MimeType,
		SizeBytes: obj.SizeBytes,
	}, nil
}

// Delete removes a stored headshot. Missing keys are not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

// limitedReader fails once more than remaining bytes are read, covering
// multipart parts whose declared size understates the content.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrAttachmentTooLarge
	}
	return n, err
}
