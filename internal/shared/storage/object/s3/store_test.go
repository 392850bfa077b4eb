package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func newTestStore(t *testing.T, opts Options) (*Store, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(server.URL)
		o.UsePathStyle = true
	})
	store, err := NewWithClient(client, opts)
	if err != nil {
		t.Fatalf("NewWithClient: %v", err)
	}
	return store, &reqs
}

func TestSaveAndDeleteUsePrefixedKey(t *testing.T) {
	store, reqs := newTestStore(t, Options{Region: "us-east-1", Bucket: "headshots", Prefix: "/uploads/"})

	content := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{2}, 256)...)
	obj, err := store.Save(context.Background(), "id1-100.png", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if obj.Key != "id1-100.png" || obj.SizeBytes != int64(len(content)) || obj.MimeType != "image/png" {
		t.Fatalf("unexpected object: %+v", obj)
	}
	if err := store.Delete(context.Background(), obj.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(*reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(*reqs))
	}
	put := (*reqs)[0]
	if put.method != http.MethodPut || put.path != "/headshots/uploads/id1-100.png" {
		t.Fatalf("unexpected put request: %s %s", put.method, put.path)
	}
	if put.contentType != "image/png" {
		t.Fatalf("unexpected content type: %s", put.contentType)
	}
	del := (*reqs)[1]
	if del.method != http.MethodDelete || del.path != "/headshots/uploads/id1-100.png" {
		t.Fatalf("unexpected delete request: %s %s", del.method, del.path)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "virtual hosted",
			opts: Options{Region: "eu-west-1", Bucket: "b", Prefix: "p"},
			want: "https://b.s3.eu-west-1.amazonaws.com/p/k.png",
		},
		{
			name: "public base",
			opts: Options{Region: "eu-west-1", Bucket: "b", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/k.png",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewWithClient(nil, tt.opts)
			if err != nil {
				t.Fatalf("NewWithClient: %v", err)
			}
			if got := store.URL("k.png"); got != tt.want {
				t.Fatalf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewWithClientRequiresBucket(t *testing.T) {
	if _, err := NewWithClient(nil, Options{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}
