package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/platform/objstore"
)

// BucketStore is an objstore.Store backed by one GCS bucket.
type BucketStore struct {
	log          *logger.Logger
	client       *storage.Client
	bucket       string
	mode         Mode
	emulatorHost string
	publicBase   string
}

func NewBucketStore(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*BucketStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate bucket config: %w", err)
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	storeLog := log.With("store", "BucketStore")
	storeLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
	)
	return &BucketStore{
		log:          storeLog,
		client:       client,
		bucket:       cfg.Bucket,
		mode:         cfg.Mode,
		emulatorHost: strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"),
		publicBase:   strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}, nil
}

func newClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.Mode == ModeGCSEmulator {
		// The client library reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(credentialOptions(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *BucketStore) Close() error { return b.client.Close() }

// EnsureDir is a no-op; bucket prefixes exist implicitly.
func (b *BucketStore) EnsureDir(context.Context, string) error { return nil }

func (b *BucketStore) Create(ctx context.Context, key string, r io.Reader) (int64, error) {
	key = objstore.SanitizeKey(key)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return n, fmt.Errorf("write %s to bucket %s: %w", key, b.bucket, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return n, fmt.Errorf("%s: %w", key, objstore.ErrExists)
		}
		return n, fmt.Errorf("close writer for %s: %w", key, err)
	}
	return n, nil
}

func (b *BucketStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := b.client.Bucket(b.bucket).Object(objstore.SanitizeKey(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", key, objstore.ErrNotExist)
		}
		return nil, err
	}
	return rc, nil
}

func (b *BucketStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := b.client.Bucket(b.bucket).Object(objstore.SanitizeKey(key)).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%s: %w", key, objstore.ErrNotExist)
		}
		return fmt.Errorf("delete %s in bucket %s: %w", key, b.bucket, err)
	}
	return nil
}

func (b *BucketStore) Walk(ctx context.Context, fn func(objstore.Object) error) error {
	it := b.client.Bucket(b.bucket).Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		if err := fn(objstore.Object{Key: attrs.Name, Size: attrs.Size, ModTime: attrs.Updated}); err != nil {
			return err
		}
	}
}

func (b *BucketStore) PublicURL(key string) string {
	key = objstore.SanitizeKey(key)
	if b.mode == ModeGCSEmulator {
		base := b.publicBase
		if base == "" {
			base = b.emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(b.bucket), url.PathEscape(key))
	}
	if b.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", b.publicBase, b.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, key)
}

func isPreconditionFailed(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusPreconditionFailed
}

func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".json":
		return "application/json"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".mp4":
		return "video/mp4"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}

var _ objstore.Store = (*BucketStore)(nil)
