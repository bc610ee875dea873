package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/storage"
)

// Service is the catalog façade. It owns the two-phase add (blob
// first, then metadata row) and the three catalog mutations. Upload
// validation is the caller's job, see ValidateUpload.
type Service struct {
	repo  Repository
	blobs storage.BlobStore
}

func NewService(repo Repository, blobs storage.BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// ListAll returns every book, newest first. A failure means the
// catalog is unavailable, not empty.
func (s *Service) ListAll(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// Usage returns the aggregate stored size in bytes, the figure the
// quota check runs against.
func (s *Service) Usage(ctx context.Context) (int64, error) {
	total, err := s.repo.TotalSize(ctx)
	if err != nil {
		return 0, fmt.Errorf("computing storage usage: %w", err)
	}
	return total, nil
}

// Add stores the file and then records its metadata. The blob must be
// durable before the row exists; a row is never written for a failed
// upload. The returned book carries the id assigned at insert.
func (s *Service) Add(ctx context.Context, filename string, size int64, contentType string, r io.Reader) (*Book, error) {
	storedName := randomStoredName(filename)

	if err := s.blobs.Put(ctx, storedName, r, size, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	b := &Book{
		Title:      strings.TrimSuffix(filename, ".pdf"),
		StoredName: storedName,
		SizeBytes:  size,
		Status:     StatusNotStarted,
		PublicURL:  s.blobs.PublicURL(storedName),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// The object is already durable. Deleting it here would hide the
		// failure mode; cmd/reconcile garbage-collects it instead.
		log.Printf("orphaned_blob key=%s size=%d error=%q", storedName, size, err)
		return nil, fmt.Errorf("%w: %v", ErrMetadataFailed, err)
	}
	return b, nil
}

// Remove deletes the metadata row. Deleting an unknown id reports
// ErrBookNotFound rather than succeeding silently. The blob stays in
// the store until the reconcile job picks it up.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return err
		}
		return fmt.Errorf("deleting book %s: %w", id, err)
	}
	return nil
}

// RemoveAll clears the whole catalog.
func (s *Service) RemoveAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting all books: %w", err)
	}
	return nil
}

// SetStatus updates a book's reading status in place. The status is
// checked before any backend call; nothing else about the row changes.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return err
		}
		return fmt.Errorf("updating status of book %s: %w", id, err)
	}
	return nil
}

// randomStoredName keeps the original extension but replaces the name
// with a fresh uuid, decoupling the storage key from the display title.
func randomStoredName(filename string) string {
	return uuid.New().String() + filepath.Ext(filename)
}
