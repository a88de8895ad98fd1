package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

// BucketConfig selects the bucket that backs asset uploads and how the
// client reaches it.
type BucketConfig struct {
	Bucket        string
	Mode          Mode
	EmulatorHost  string
	PublicBaseURL string
}

type ConfigErrorCode string

const (
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid bucket config"
	}
	switch e.Code {
	case ConfigErrorMissingBucket:
		return "STORAGE_DRIVER=gcs requires GCS_BUCKET_NAME"
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ModeGCS, ModeGCSEmulator)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid bucket config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ParseMode maps the raw OBJECT_STORAGE_MODE value to a Mode. A blank mode
// with an emulator host set means the emulator.
func ParseMode(raw, emulatorHost string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		if strings.TrimSpace(emulatorHost) != "" {
			return ModeGCSEmulator, nil
		}
		return ModeGCS, nil
	case ModeGCS:
		return ModeGCS, nil
	case ModeGCSEmulator:
		return ModeGCSEmulator, nil
	default:
		return "", &ConfigError{Code: ConfigErrorInvalidMode, Value: raw}
	}
}

func (cfg BucketConfig) Validate() error {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &ConfigError{Code: ConfigErrorMissingBucket}
	}
	switch cfg.Mode {
	case ModeGCS:
		return nil
	case ModeGCSEmulator:
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if strings.TrimSpace(cfg.EmulatorHost) == "" {
		return &ConfigError{Code: ConfigErrorMissingEmulatorHost}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Code: ConfigErrorInvalidEmulatorHost, Value: cfg.EmulatorHost, Cause: err}
	}
	return nil
}
