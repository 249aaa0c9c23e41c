package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeLocal       ObjectStorageMode = "local"
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode          ObjectStorageMode
	Bucket        string
	CDNDomain     string
	EmulatorHost  string
	PublicBaseURL string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

func (cfg ObjectStorageConfig) UsesGCS() bool {
	return cfg.Mode == ObjectStorageModeGCS || cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigError struct {
	Field string
	Value string
	Cause error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Field {
	case "OBJECT_STORAGE_MODE":
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Value, ObjectStorageModeLocal, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case "UPLOAD_GCS_BUCKET":
		return "UPLOAD_GCS_BUCKET is required when uploads go to GCS"
	case "STORAGE_EMULATOR_HOST":
		if e.Value == "" {
			return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", ObjectStorageModeGCSEmulator)
		}
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfigFromEnv reads the upload storage settings. Local
// disk is the default so a fresh checkout runs without cloud credentials.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		Bucket:        strings.TrimSpace(os.Getenv("UPLOAD_GCS_BUCKET")),
		CDNDomain:     strings.TrimSpace(os.Getenv("UPLOAD_CDN_DOMAIN")),
		EmulatorHost:  strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
	}

	raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := ObjectStorageMode(strings.ToLower(raw)); mode {
	case "", ObjectStorageModeLocal:
		cfg.Mode = ObjectStorageModeLocal
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{Field: "OBJECT_STORAGE_MODE", Value: raw}
	}

	return cfg, ValidateObjectStorageConfig(cfg)
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !cfg.UsesGCS() {
		return nil
	}
	if cfg.Bucket == "" {
		return &ObjectStorageConfigError{Field: "UPLOAD_GCS_BUCKET"}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Field: "STORAGE_EMULATOR_HOST"}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ObjectStorageConfigError{Field: "STORAGE_EMULATOR_HOST", Value: cfg.EmulatorHost, Cause: err}
	}
	return nil
}
