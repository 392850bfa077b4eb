package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

func TestGenerateJoinsTextBlocks(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))

	var path, apiKey string
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		path = r.URL.Path
		apiKey = r.Header.Get("X-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"I ship."},{"type":"text","text":"I mentor."}],"stop_reason":"end_turn","usage":{"input_tokens":5,"output_tokens":6}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", Model: "claude-3-5-haiku-latest", BaseURL: server.URL, Temperature: 0.6})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := client.Generate(context.Background(), "Write about me")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "I ship.\nI mentor." {
		t.Fatalf("unexpected text %q", text)
	}
	if !strings.HasSuffix(path, "/messages") {
		t.Fatalf("unexpected path %s", path)
	}
	if apiKey != "k" {
		t.Fatalf("unexpected api key header %q", apiKey)
	}
	if temp, ok := payload["temperature"].(float64); !ok || temp != 0.6 {
		t.Fatalf("expected temperature 0.6, got %v", payload["temperature"])
	}
}

func TestGenerateMapsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", Model: "m", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Generate(context.Background(), "p")
	var statusErr *llm.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
}
