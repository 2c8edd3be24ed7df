package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Configure(&buf, "info")
	t.Cleanup(func() { telemetry.Configure(os.Stdout, "info") })

	router := gin.New()
	router.Use(RequestID(), Auth("dev"), Logging())
	router.POST("/api/v1/forms/:id/submit", func(c *gin.Context) {
		c.Set(FormIDKey, c.Param("id"))
		c.Set(BookIDKey, "book-1")
		c.Set(StatusTransitionKey, "idle->validating")
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/form-1/submit", nil)
	req.Header.Set("X-User-Id", "admin-1")
	req.Header.Set("X-Role", "admin")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "form_id", "book_id", "duration_ms", "status", "status_transition", "ts"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["user_id"] != "admin-1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["form_id"] != "form-1" {
		t.Fatalf("unexpected form_id: %v", payload["form_id"])
	}
	if payload["status_transition"] != "idle->validating" {
		t.Fatalf("unexpected status_transition: %v", payload["status_transition"])
	}
	if payload["status"] != float64(http.StatusAccepted) {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}
