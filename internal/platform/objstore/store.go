package objstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrExists   = errors.New("object already exists")
	ErrNotExist = errors.New("object does not exist")
)

// Object describes one stored file as seen by Walk.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Store persists binary uploads under slash-separated keys.
type Store interface {
	// EnsureDir makes prefix usable for writes. Safe to call concurrently and repeatedly.
	EnsureDir(ctx context.Context, prefix string) error
	// Create writes r to key and fails with ErrExists when key is already taken.
	Create(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes key and fails with ErrNotExist when it is missing.
	Delete(ctx context.Context, key string) error
	Walk(ctx context.Context, fn func(Object) error) error
	PublicURL(key string) string
}

// Key joins segments into a store key, dropping empty, "." and ".." parts.
func Key(segments ...string) string {
	return SanitizeKey(strings.Join(segments, "/"))
}

// SanitizeKey prevents path traversal.
func SanitizeKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return path.Join(out...)
}
