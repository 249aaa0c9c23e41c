package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/edubox-backend/internal/platform/gcp"
	"github.com/yungbote/edubox-backend/internal/platform/localfs"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

var (
	resolveObjectStorageConfig = gcp.ResolveObjectStorageConfigFromEnv
	newBucket                  = gcp.NewBucket
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// objectStore is the upload backend picked at boot. Static is set when files
// land on local disk and must be served by the router.
type objectStore struct {
	Store  services.ObjectStore
	Static *localfs.Store
	close  func() error
}

func (o *objectStore) Close() error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close()
}

func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg Config) (*objectStore, error) {
	storageCfg, err := resolveObjectStorageConfig()
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error(
			"Object storage provider selection failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storageCfg.Mode,
		"bucket", storageCfg.Bucket,
		"emulator_host", storageCfg.EmulatorHost,
	)

	if !storageCfg.UsesGCS() {
		store, err := localfs.New(log, cfg.UploadDir, cfg.UploadPublicPrefix)
		if err != nil {
			return nil, &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorConnectFailed,
				Mode:  string(storageCfg.Mode),
				Cause: err,
			}
		}
		return &objectStore{Store: store, Static: store}, nil
	}

	bucket, err := newBucket(ctx, log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return &objectStore{Store: bucket, close: bucket.Close}, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Field {
		case "OBJECT_STORAGE_MODE":
			code = StorageProviderBootstrapErrorInvalidMode
		case "UPLOAD_GCS_BUCKET":
			code = StorageProviderBootstrapErrorMissingBucket
		case "STORAGE_EMULATOR_HOST":
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
			if cfgErr.Value == "" {
				code = StorageProviderBootstrapErrorMissingEmulatorHost
			}
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
