package book

import "errors"

var (
	// Upload validation failures. Detected client-side, never reach the backend.
	ErrInvalidType   = errors.New("only PDF files are allowed")
	ErrFileTooLarge  = errors.New("file exceeds the per-file size limit")
	ErrQuotaExceeded = errors.New("upload would exceed the storage quota")

	ErrInvalidStatus = errors.New("status must be one of not-started, started, done")
	ErrBookNotFound  = errors.New("book not found")

	// ErrUploadFailed: the blob never reached the store, no row was written.
	ErrUploadFailed = errors.New("file upload failed")

	// ErrMetadataFailed: the blob was stored but the row insert failed,
	// leaving an orphaned object. cmd/reconcile collects those.
	ErrMetadataFailed = errors.New("failed to record book metadata")
)
