package book

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/database"
	"bookshelf/internal/storage"
)

type apiResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Book{}))

	blobs, err := storage.Connect(context.Background(), storage.Config{
		DiskDir:     t.TempDir(),
		DiskURLBase: "/static/blobs",
	})
	require.NoError(t, err)

	service := NewService(NewRepository(db), blobs)
	handler := NewHandler(service)

	router := gin.New()
	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, handler)

	return router, service
}

func pdfUploadBody(t *testing.T, files map[string][]byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func listBooks(t *testing.T, router *gin.Engine) []map[string]any {
	t.Helper()
	resp := doJSON(router, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body apiResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	raw := body.Data["books"].([]any)
	books := make([]map[string]any, 0, len(raw))
	for _, b := range raw {
		books = append(books, b.(map[string]any))
	}
	return books
}

func TestBooksLifecycle(t *testing.T) {
	router, _ := setupRouter(t)

	assert.Empty(t, listBooks(t, router))

	// upload a 2 MiB "Manual.pdf"
	payload := bytes.Repeat([]byte("x"), 2*1024*1024)
	body, contentType := pdfUploadBody(t, map[string][]byte{"Manual.pdf": payload}, "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	books := listBooks(t, router)
	require.Len(t, books, 1)
	assert.Equal(t, "Manual", books[0]["title"])
	assert.Equal(t, "not-started", books[0]["status"])
	assert.Equal(t, float64(2*1024*1024), books[0]["file_size"])
	assert.NotEmpty(t, books[0]["file_url"])
	id := books[0]["id"].(string)
	require.NotEmpty(t, id)

	// status -> started
	resp = doJSON(router, http.MethodPatch, "/api/v1/books/"+id+"/status", gin.H{"status": "started"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	books = listBooks(t, router)
	require.Len(t, books, 1)
	assert.Equal(t, "started", books[0]["status"])

	// delete, then the catalog is empty again
	resp = doJSON(router, http.MethodDelete, "/api/v1/books/"+id, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, listBooks(t, router))
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := pdfUploadBody(t, map[string][]byte{"notes.txt": []byte("hello")}, "text/plain")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, listBooks(t, router), "a rejected upload writes nothing")
}

func TestUploadBatchValidatesAgainstPreBatchUsage(t *testing.T) {
	router, _ := setupRouter(t)

	// Two 30 MiB files: each passes the per-file and quota checks on
	// its own against the empty pre-batch catalog, so both land even
	// though together they exceed the quota. Documented behavior.
	payload := bytes.Repeat([]byte("x"), 30*1024*1024)
	body, contentType := pdfUploadBody(t, map[string][]byte{
		"one.pdf": payload,
		"two.pdf": payload,
	}, "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Len(t, listBooks(t, router), 2)
}

func TestUpdateStatusValidation(t *testing.T) {
	router, _ := setupRouter(t)

	resp := doJSON(router, http.MethodPatch, "/api/v1/books/whatever/status", gin.H{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(router, http.MethodPatch, "/api/v1/books/missing-id/status", gin.H{"status": "done"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	resp := doJSON(router, http.MethodDelete, "/api/v1/books/missing-id", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	var body apiResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "BOOK_NOT_FOUND", body.Error.Code)
}

func TestListReportsUsage(t *testing.T) {
	router, service := setupRouter(t)

	_, err := service.Add(context.Background(), "a.pdf", 5, "application/pdf", strings.NewReader("%PDF5"))
	require.NoError(t, err)
	_, err = service.Add(context.Background(), "b.pdf", 7, "application/pdf", strings.NewReader("%PDF7.."))
	require.NoError(t, err)

	resp := doJSON(router, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body apiResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, float64(12), body.Data["used_bytes"])
}
