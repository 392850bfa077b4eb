package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/util"
)

const defaultPublicHost = "https://storage.googleapis.com"

// Options configures the GCS-backed store.
type Options struct {
	Bucket        string
	Prefix        string
	PublicBaseURL string
	// Endpoint targets an emulator; credentials are skipped when set.
	Endpoint string
}

// Store implements ObjectStore using Google Cloud Storage.
type Store struct {
	client  *storage.Client
	bucket  string
	prefix  string
	baseURL string
}

// New creates a GCS-backed store using application default credentials.
func New(ctx context.Context, opts Options) (*Store, error) {
	var clientOpts []option.ClientOption
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return NewWithClient(client, opts)
}

// NewWithClient wraps an existing storage client.
func NewWithClient(client *storage.Client, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	return &Store{
		client:  client,
		bucket:  strings.TrimSpace(opts.Bucket),
		prefix:  strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
		baseURL: strings.TrimSpace(opts.PublicBaseURL),
	}, nil
}

// Save streams the reader into bucket/prefix/key.
func (s *Store) Save(ctx context.Context, key string, r io.Reader) (object.Object, error) {
	name, err := util.SanitizeFileName(key)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize key: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, fmt.Errorf("read sniff: %w", err)
	}

	objectKey := object.ApplyPrefix(s.prefix, name)
	// DoesNotExist keeps concurrent writers from replacing each other's objects.
	w := s.client.Bucket(s.bucket).Object(objectKey).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = mimeType

	counter := &object.CountingReader{R: body}
	if _, err := io.Copy(w, counter); err != nil {
		_ = w.Close()
		return object.Object{}, fmt.Errorf("gcs write bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	if err := w.Close(); err != nil {
		return object.Object{}, fmt.Errorf("gcs close bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return object.Object{Key: name, SizeBytes: counter.N, MimeType: mimeType}, nil
}

// Open downloads a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objectKey := object.ApplyPrefix(s.prefix, key)
	rc, err := s.client.Bucket(s.bucket).Object(objectKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("gcs read bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return rc, nil
}

// Delete removes the object stored under key. Missing objects are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objectKey := object.ApplyPrefix(s.prefix, key)
	if err := s.client.Bucket(s.bucket).Object(objectKey).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("gcs delete bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	objectKey := object.ApplyPrefix(s.prefix, key)
	if s.baseURL != "" {
		return object.JoinURL(s.baseURL, objectKey)
	}
	return object.JoinURL(defaultPublicHost+"/"+s.bucket, objectKey)
}

var _ object.ObjectStore = (*Store)(nil)
