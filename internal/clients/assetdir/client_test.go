package assetdir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

func TestClientExists(t *testing.T) {
	known := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/assets/")
		switch id {
		case known.String():
			_, _ = w.Write([]byte(`{"id":"` + id + `"}`))
		case "00000000-0000-0000-0000-000000000000":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if ok, err := c.Exists(ctx, known); err != nil || !ok {
		t.Fatalf("Exists(known): ok=%v err=%v", ok, err)
	}
	if ok, err := c.Exists(ctx, uuid.New()); err != nil || ok {
		t.Fatalf("Exists(unknown): ok=%v err=%v", ok, err)
	}
	if _, err := c.Exists(ctx, uuid.Nil); err == nil {
		t.Fatalf("Exists(server error): want error")
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New(logger.Nop(), Config{BaseURL: "assets:3001"}); err == nil {
		t.Fatalf("New: want error for URL without scheme")
	}
}
