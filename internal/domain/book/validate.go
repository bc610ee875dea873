package book

const (
	// MaxFileSize is the per-file upload limit.
	MaxFileSize = 50 * 1024 * 1024
	// StorageQuota caps the aggregate size of all stored books.
	StorageQuota = 50 * 1024 * 1024
	// PDFMimeType is the only accepted declared content type.
	PDFMimeType = "application/pdf"
)

// ValidateUpload applies the upload acceptance rules in order: declared
// type, per-file limit, then quota against current usage. The first
// failing rule wins. usedBytes is the aggregate size of everything
// already in the catalog; batches are checked file by file against the
// same pre-batch figure.
func ValidateUpload(contentType string, sizeBytes, usedBytes int64) error {
	if contentType != PDFMimeType {
		return ErrInvalidType
	}
	if sizeBytes > MaxFileSize {
		return ErrFileTooLarge
	}
	if usedBytes+sizeBytes > StorageQuota {
		return ErrQuotaExceeded
	}
	return nil
}
