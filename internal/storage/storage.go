// Package storage holds the blob side of the catalog. Raw file bytes
// live in an object store addressed by a stored name; the metadata row
// only carries that name and the resolved public URL.
package storage

import (
	"context"
	"errors"
	"io"
	"log"
)

// ErrKeyExists is returned by Put when the key is already taken.
// Uploads never overwrite.
var ErrKeyExists = errors.New("object already exists")

type BlobStore interface {
	// Put stores the object under key with no-overwrite semantics.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PublicURL returns the stable externally resolvable address of a
	// stored object. It does not check existence.
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
	// List returns every stored key with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Config carries the blob backend settings. S3 fields empty means
// local disk.
type Config struct {
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	DiskDir     string
	DiskURLBase string
}

// Connect picks the blob backend the same way database.Connect picks
// the SQL one: S3-compatible storage when an endpoint is configured,
// local disk for development otherwise.
func Connect(ctx context.Context, cfg Config) (BlobStore, error) {
	if cfg.S3Endpoint != "" {
		log.Println("Using S3 object storage:", cfg.S3Endpoint)
		return newS3Store(ctx, cfg)
	}

	log.Println("Using local disk storage:", cfg.DiskDir)
	return newDiskStore(cfg.DiskDir, cfg.DiskURLBase)
}
