package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/ping", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{"caller id kept", "req-123", true},
		{"blank generated", "", false},
		{"control chars replaced", "bad\nid", false},
		{"oversized replaced", strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set(HeaderRequestID, tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if seen == nil || seen.RequestID == "" {
				t.Fatalf("trace data not attached")
			}
			if tc.keep && seen.RequestID != tc.header {
				t.Fatalf("request id: want=%q got=%q", tc.header, seen.RequestID)
			}
			if !tc.keep && seen.RequestID == tc.header {
				t.Fatalf("request id should have been regenerated")
			}
			if rec.Header().Get(HeaderRequestID) != seen.RequestID || rec.Header().Get(HeaderTraceID) != seen.TraceID {
				t.Fatalf("headers not echoed: %v", rec.Header())
			}
		})
	}
}
