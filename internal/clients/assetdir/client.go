package assetdir

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client looks asset ids up in the assets service over HTTP.
type Client struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ASSET_SERVICE_URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		log:     log.With("client", "AssetDirectory"),
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Exists reports whether GET /api/assets/:id answers 200. 404 means the
// asset is unknown; any other status is an error.
func (c *Client) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/assets/"+id.String(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("asset lookup: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		c.log.Warn("Unexpected asset lookup status", "asset_id", id, "status", resp.StatusCode)
		return false, fmt.Errorf("asset lookup: unexpected status %d", resp.StatusCode)
	}
}
