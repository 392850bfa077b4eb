package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

func TestRateLimitCreatePerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Cleanup(telemetry.SetOutput(io.Discard))

	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.POST("/resume/create", RateLimit(limiter, RateLimitRule{Rate: 1, Burst: 2}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/resume", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func(method, path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = ip + ":1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	for i := 0; i < 2; i++ {
		if resp := send(http.MethodPost, "/resume/create", "10.0.0.1"); resp.Code != http.StatusOK {
			t.Fatalf("create %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := send(http.MethodPost, "/resume/create", "10.0.0.1")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] == "" || body["error"] == "" {
		t.Fatalf("expected message and error, got %v", body)
	}

	if resp := send(http.MethodPost, "/resume/create", "10.0.0.2"); resp.Code != http.StatusOK {
		t.Fatalf("other client expected 200, got %d", resp.Code)
	}
	for i := 0; i < 5; i++ {
		if resp := send(http.MethodGet, "/resume", "10.0.0.1"); resp.Code != http.StatusOK {
			t.Fatalf("unlimited route expected 200, got %d", resp.Code)
		}
	}

	now = now.Add(time.Second)
	if resp := send(http.MethodPost, "/resume/create", "10.0.0.1"); resp.Code != http.StatusOK {
		t.Fatalf("after refill expected 200, got %d", resp.Code)
	}
}

func TestRateLimiterZeroRuleAllows(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{}); !ok {
			t.Fatalf("zero rule should allow")
		}
	}
}
