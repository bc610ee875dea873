package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDiskDir = "./blobs"
	defaultURLBase = "/static/blobs"
)

// diskStore keeps blobs on the local filesystem for development. The
// URL base is the static route the API server mounts over the same
// directory.
type diskStore struct {
	baseDir string
	urlBase string
}

func newDiskStore(baseDir, urlBase string) (*diskStore, error) {
	if baseDir == "" {
		baseDir = defaultDiskDir
	}
	if urlBase == "" {
		urlBase = defaultURLBase
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &diskStore{baseDir: baseDir, urlBase: urlBase}, nil
}

func (d *diskStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path := filepath.Join(d.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}

	// O_EXCL gives the same no-overwrite semantics as the S3 backend.
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrKeyExists
		}
		return fmt.Errorf("creating blob file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing blob file: %w", err)
	}
	return nil
}

func (d *diskStore) PublicURL(key string) string {
	return d.urlBase + "/" + key
}

func (d *diskStore) Delete(ctx context.Context, key string) error {
	path := filepath.Join(d.baseDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob file: %w", err)
	}
	return nil
}

func (d *diskStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(d.baseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(d.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking blob directory: %w", err)
	}
	return keys, nil
}
