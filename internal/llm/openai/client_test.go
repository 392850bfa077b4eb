package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

func TestGenerateSendsPromptAndTemperature(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))

	var payload map[string]any
	var auth, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  I build things.  "}}],"usage":{"prompt_tokens":10,"completion_tokens":4,"total_tokens":14}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", Model: "gpt-3.5-turbo", BaseURL: server.URL, Temperature: 0.6})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	text, err := client.Generate(context.Background(), "Write about me")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "I build things." {
		t.Fatalf("unexpected text %q", text)
	}
	if path != "/chat/completions" {
		t.Fatalf("unexpected path %s", path)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if payload["model"] != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model %v", payload["model"])
	}
	if temp, ok := payload["temperature"].(float64); !ok || temp != 0.6 {
		t.Fatalf("expected temperature 0.6, got %v", payload["temperature"])
	}
	msgs, ok := payload["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", payload["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "Write about me" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantEmpty  bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, wantStatus: 429},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantStatus: 502},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantEmpty: true},
		{name: "malformed", status: http.StatusOK, body: `{"choices":`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "k", Model: "m", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, err = client.Generate(context.Background(), "p")
			if err == nil {
				t.Fatalf("expected error")
			}
			var statusErr *llm.StatusError
			if tt.wantStatus != 0 {
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.wantStatus {
					t.Fatalf("expected status %d, got %v", tt.wantStatus, err)
				}
			}
			if tt.wantEmpty && !errors.Is(err, llm.ErrEmptyCompletion) {
				t.Fatalf("expected empty completion, got %v", err)
			}
		})
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected missing model error")
	}
}
