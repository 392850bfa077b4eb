package resumes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/ids"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/storage/object/local"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/uploads"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func pngBytes(size int) []byte {
	out := make([]byte, 0, size)
	out = append(out, pngMagic...)
	return append(out, bytes.Repeat([]byte{0x42}, size-len(pngMagic))...)
}

// fakeGenerator records prompts and fails on the configured call number (1-based).
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	calls   atomic.Int32
	failOn  int32
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.failOn != 0 && n == f.failOn {
		return "", f.err
	}
	return "generated: " + llm.PromptKindFromContext(ctx), nil
}

type testEnv struct {
	svc  *Service
	repo *MemoryRepo
	gen  *fakeGenerator
	dir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))

	dir := t.TempDir()
	repo := NewMemoryRepo()
	gen := &fakeGenerator{}
	up := uploads.NewService(local.New(dir, "http://localhost:5000/uploads"), 5<<20)
	svc := &Service{
		Repo:      repo,
		Uploads:   up,
		Generator: gen,
		IDs:       &ids.Sequence{Prefix: "rec"},
		Now:       func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	return &testEnv{svc: svc, repo: repo, gen: gen, dir: dir}
}

func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names
}

func (e *testEnv) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(e.svc, 5<<20).RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if content != nil {
		part, err := w.CreateFormFile(uploads.FieldName, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func headshotHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := multipartBody(t, nil, name, content)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File[uploads.FieldName][0]
}

func adaFields() map[string]string {
	return map[string]string{
		"fullName":            "Ada Lovelace",
		"currentPosition":     "Engineer",
		"currentLength":       "5",
		"currentTechnologies": "Go, SQL",
		"workHistory":         `[{"name":"Acme","position":"Dev"},{"name":"Globex","position":"Lead"}]`,
	}
}
