package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfigFromEnvDefaultsToLocal(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("UPLOAD_GCS_BUCKET", "")

	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != ObjectStorageModeLocal {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeLocal, cfg.Mode)
	}
	if cfg.UsesGCS() {
		t.Fatalf("local mode should not use GCS")
	}
}

func TestResolveObjectStorageConfigFromEnvGCSRequiresBucket(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "gcs")
	t.Setenv("UPLOAD_GCS_BUCKET", "")

	_, err := ResolveObjectStorageConfigFromEnv()
	var cfgErr *ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "UPLOAD_GCS_BUCKET" {
		t.Fatalf("err=%v want missing bucket error", err)
	}
}

func TestResolveObjectStorageConfigFromEnvRejectsUnknownMode(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "s3")

	_, err := ResolveObjectStorageConfigFromEnv()
	var cfgErr *ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "OBJECT_STORAGE_MODE" {
		t.Fatalf("err=%v want invalid mode error", err)
	}
}

func TestResolveObjectStorageConfigFromEnvEmulatorNeedsValidHost(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "gcs_emulator")
	t.Setenv("UPLOAD_GCS_BUCKET", "edubox-uploads")
	t.Setenv("STORAGE_EMULATOR_HOST", "fake-gcs:4443")

	_, err := ResolveObjectStorageConfigFromEnv()
	var cfgErr *ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "STORAGE_EMULATOR_HOST" {
		t.Fatalf("err=%v want emulator host error", err)
	}
}

func TestPublicObjectURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  ObjectStorageConfig
		want string
	}{
		{
			name: "default",
			cfg:  ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "edubox-uploads"},
			want: "https://storage.googleapis.com/edubox-uploads/a/notes.pdf",
		},
		{
			name: "cdn",
			cfg:  ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "edubox-uploads", CDNDomain: "cdn.edubox.app"},
			want: "https://cdn.edubox.app/a/notes.pdf",
		},
		{
			name: "emulator",
			cfg:  ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "edubox-uploads", EmulatorHost: "http://localhost:4443"},
			want: "http://localhost:4443/storage/v1/b/edubox-uploads/o/a%2Fnotes.pdf?alt=media",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicObjectURL(tc.cfg, "/a/notes.pdf"); got != tc.want {
				t.Fatalf("PublicObjectURL=%q want %q", got, tc.want)
			}
		})
	}
}
