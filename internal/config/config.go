package config

import (
	"fmt"
	"os"
	"strings"

	"bookshelf/internal/pkg/validator"
	"bookshelf/internal/storage"
)

const (
	defaultListenAddr  = ":8080"
	defaultDiskDir     = "./blobs"
	defaultDiskURLBase = "/static/blobs"
	defaultS3Region    = "us-east-1"
)

// Config is the whole runtime configuration, read from the
// environment. Backend credentials are opaque, externally supplied
// values; nothing else is configurable.
type Config struct {
	DatabaseURL string `validate:"required"`
	ListenAddr  string `validate:"required"`
	Storage     storage.Config
}

// Load reads the environment. DATABASE_URL is the only hard
// requirement; without S3 settings the blob store falls back to local
// disk, matching the sqlite fallback on the database side.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:  getEnv("LISTEN_ADDR", defaultListenAddr),
		Storage: storage.Config{
			S3Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			S3Region:    getEnv("S3_REGION", defaultS3Region),
			S3Bucket:    getEnv("S3_BUCKET", "books"),
			S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("S3_SECRET_KEY"),
			DiskDir:     getEnv("BLOB_DIR", defaultDiskDir),
			DiskURLBase: getEnv("BLOB_URL_BASE", defaultDiskURLBase),
		},
	}

	if errs := validator.Validate(cfg); errs != nil {
		return nil, fmt.Errorf("invalid configuration: %v", errs)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
