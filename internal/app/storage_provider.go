package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/gamehub-backend/internal/platform/gcp"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/platform/objstore"
)

var newBucketStore = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (objstore.Store, func() error, error) {
	b, err := gcp.NewBucketStore(ctx, log, cfg)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidDriver       StorageProviderBootstrapErrorCode = "invalid_driver"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code   StorageProviderBootstrapErrorCode
	Driver string
	Mode   string
	Cause  error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s driver=%q mode=%q): %v",
		e.Code,
		e.Driver,
		e.Mode,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// storageProvider is the store the asset service writes to, plus what the
// router needs to serve it.
type storageProvider struct {
	Store objstore.Store
	// StaticDir is set for the local driver; the router serves it at /uploads.
	StaticDir string
	Close     func() error
}

func resolveStorageProvider(ctx context.Context, log *logger.Logger, cfg Config) (*storageProvider, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", StorageDriverLocal:
		publicBase, err := url.JoinPath(cfg.BaseURL, "uploads")
		if err != nil {
			return nil, &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Driver: StorageDriverLocal, Cause: err}
		}
		store, err := objstore.NewLocalStore(cfg.UploadsRoot, publicBase)
		if err != nil {
			return nil, &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Driver: StorageDriverLocal, Cause: err}
		}
		log.Info("Selecting object storage provider", "driver", StorageDriverLocal, "root", store.Root())
		return &storageProvider{Store: store, StaticDir: store.Root(), Close: func() error { return nil }}, nil

	case StorageDriverGCS:
		mode, err := gcp.ParseMode(cfg.ObjectStorageMode, cfg.StorageEmulatorHost)
		if err != nil {
			return nil, classifyStorageProviderBootstrapError(driver, cfg.ObjectStorageMode, err)
		}
		bucketCfg := gcp.BucketConfig{
			Bucket:        cfg.GCSBucket,
			Mode:          mode,
			EmulatorHost:  cfg.StorageEmulatorHost,
			PublicBaseURL: cfg.GCSPublicBaseURL,
		}
		if err := bucketCfg.Validate(); err != nil {
			return nil, classifyStorageProviderBootstrapError(driver, string(mode), err)
		}
		log.Info(
			"Selecting object storage provider",
			"driver", StorageDriverGCS,
			"mode", mode,
			"bucket", bucketCfg.Bucket,
			"emulator_host", bucketCfg.EmulatorHost,
		)
		store, closeFn, err := newBucketStore(ctx, log, bucketCfg)
		if err != nil {
			classified := classifyStorageProviderBootstrapError(driver, string(mode), err)
			log.Error("Object storage provider bootstrap failed", "driver", driver, "mode", mode, "error", classified)
			return nil, classified
		}
		return &storageProvider{Store: store, Close: closeFn}, nil

	default:
		return nil, &StorageProviderBootstrapError{
			Code:   StorageProviderBootstrapErrorInvalidDriver,
			Driver: driver,
			Cause:  fmt.Errorf("unsupported STORAGE_DRIVER %q (allowed: %q, %q)", driver, StorageDriverLocal, StorageDriverGCS),
		}
	}
}

func classifyStorageProviderBootstrapError(driver, mode string, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ConfigErrorMissingBucket:
			code = StorageProviderBootstrapErrorMissingBucket
		case gcp.ConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		}
	}
	return &StorageProviderBootstrapError{Code: code, Driver: driver, Mode: mode, Cause: err}
}
