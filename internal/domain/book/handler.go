package book

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/pkg/response"
	"bookshelf/internal/pkg/validator"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns all books newest-first plus the derived storage usage.
// Any backend failure is "catalog unavailable", never an empty list.
func (h *Handler) List(c *gin.Context) {
	books, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "failed to load books")
		return
	}

	if books == nil {
		books = []Book{} // empty list serializes as [], not null
	}

	var used int64
	for _, b := range books {
		used += b.SizeBytes
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":       books,
		"used_bytes":  used,
		"quota_bytes": int64(StorageQuota),
	})
}

// Upload accepts one or more PDF files in the "file" multipart field.
// Each file is validated independently against the pre-batch usage
// figure, so a batch may collectively exceed the quota. That matches
// the product's current behavior and is deliberate.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}

	used, err := h.service.Usage(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "failed to compute storage usage")
		return
	}

	results := make([]UploadResult, 0, len(files))
	added := 0
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")

		if err := ValidateUpload(contentType, fh.Size, used); err != nil {
			results = append(results, UploadResult{Filename: fh.Filename, Error: err.Error()})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, UploadResult{Filename: fh.Filename, Error: "failed to read file"})
			continue
		}

		b, err := h.service.Add(c.Request.Context(), fh.Filename, fh.Size, contentType, f)
		f.Close()
		if err != nil {
			_ = c.Error(err)
			results = append(results, UploadResult{Filename: fh.Filename, Error: err.Error()})
			continue
		}

		results = append(results, UploadResult{Filename: fh.Filename, Book: b})
		added++
	}

	status := http.StatusCreated
	if added == 0 {
		status = http.StatusBadRequest
	}
	response.Success(c, status, gin.H{"results": results, "added": added})
}

// UpdateStatus sets the reading status of one book.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_STATUS", ErrInvalidStatus.Error(), errs)
		return
	}

	id := c.Param("id")
	if err := h.service.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		case errors.Is(err, ErrBookNotFound):
			response.Error(c, http.StatusNotFound, "BOOK_NOT_FOUND", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REMOTE_ERROR", "status update failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// Delete removes one book's metadata row. An unknown id is a 404, not
// a silent success, so the caller can warn the user.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			response.Error(c, http.StatusNotFound, "BOOK_NOT_FOUND", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REMOTE_ERROR", "delete failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// DeleteAll clears the catalog.
func (h *Handler) DeleteAll(c *gin.Context) {
	if err := h.service.RemoveAll(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REMOTE_ERROR", "delete failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": "all"})
}
