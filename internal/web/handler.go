package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/domain/book"
	"bookshelf/internal/library"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Handler is the server-rendered UI over the catalog. Every browser
// session owns a library.State; handlers translate form posts into
// state operations and service calls, then redirect back to the page.
type Handler struct {
	service  *book.Service
	sessions *sessionStore
	tmpl     *template.Template
}

func NewHandler(service *book.Service) *Handler {
	funcs := template.FuncMap{
		"mib": func(n int64) float64 { return float64(n) / (1024 * 1024) },
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
	return &Handler{
		service:  service,
		sessions: newSessionStore(),
		tmpl:     tmpl,
	}
}

type pageData struct {
	View     library.View
	Loading  bool
	LoadErr  error
	Entries  []library.Entry
	Selected library.Entry
	UsedMiB  float64
	QuotaMiB float64
	Flash    string
}

// Index renders the current view of the session's state. The first
// visit kicks off the catalog fetch in the background and shows the
// loading indicator until it reconciles.
func (h *Handler) Index(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// A failed load retries on the next visit.
	if (sess.state.Loading() || sess.state.LoadError() != nil) && !sess.fetching {
		sess.fetching = true
		go h.fetchCatalog(sess)
	}

	data := pageData{
		View:     sess.state.View(),
		Loading:  sess.state.Loading(),
		LoadErr:  sess.state.LoadError(),
		Entries:  sess.state.Entries(),
		UsedMiB:  sess.state.UsageMiB(),
		QuotaMiB: float64(book.StorageQuota) / (1024 * 1024),
		Flash:    c.Query("err"),
	}
	if sel, ok := sess.state.Selected(); ok {
		data.Selected = sel
	}

	name := "library"
	switch {
	case data.Loading || data.LoadErr != nil:
		name = "loading"
	case data.View == library.ViewUpload:
		name = "upload"
	case data.View == library.ViewReader:
		name = "reader"
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tmpl.ExecuteTemplate(c.Writer, name, data); err != nil {
		_ = c.Error(err)
	}
}

// fetchCatalog loads the book list once per session. The request that
// triggered it has long returned, hence the background context.
func (h *Handler) fetchCatalog(sess *session) {
	books, err := h.service.ListAll(context.Background())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.fetching = false
	if err != nil {
		log.Printf("catalog_load_failed error=%q", err)
		sess.state.LoadFailed(err)
		return
	}
	sess.state.Load(books)
}

// SetView switches between library and upload.
func (h *Handler) SetView(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.mu.Lock()
	err := sess.state.SetView(library.View(c.PostForm("view")))
	sess.mu.Unlock()

	redirect(c, err)
}

// Upload validates each file against the pre-batch usage figure,
// registers a pending placeholder and runs the actual add in the
// background. Navigating away does not abort an in-flight upload.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) == 0 {
		redirect(c, book.ErrInvalidType)
		return
	}

	sess := h.sessions.get(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// One figure for the whole batch: acceptance of one file does not
	// affect the quota check of its siblings.
	used := sess.state.UsageBytes()

	var firstErr error
	for _, fh := range form.File["file"] {
		contentType := fh.Header.Get("Content-Type")
		if err := book.ValidateUpload(contentType, fh.Size, used); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		f, err := fh.Open()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		buf, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		cid := sess.state.BeginAdd(fh.Filename, fh.Size)
		go h.addInBackground(sess, cid, fh.Filename, fh.Size, contentType, buf)
	}

	redirect(c, firstErr)
}

func (h *Handler) addInBackground(sess *session, cid, filename string, size int64, contentType string, data []byte) {
	b, err := h.service.Add(context.Background(), filename, size, contentType, bytes.NewReader(data))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		log.Printf("add_failed file=%q error=%q", filename, err)
		sess.state.FailAdd(cid, err)
		return
	}
	sess.state.ConfirmAdd(cid, *b)
}

// Read opens the reader view for a book. Pending and failed entries
// are refused.
func (h *Handler) Read(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.mu.Lock()
	err := sess.state.OpenReader(c.PostForm("id"))
	sess.mu.Unlock()

	redirect(c, err)
}

// Back leaves the reader view.
func (h *Handler) Back(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.mu.Lock()
	sess.state.CloseReader()
	sess.mu.Unlock()

	redirect(c, nil)
}

// UpdateStatus changes a book's reading status. Local state is only
// touched after the backend confirmed; a failed call leaves it as-is.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.PostForm("id")
	status := book.Status(c.PostForm("status"))

	err := h.service.SetStatus(c.Request.Context(), id, status)
	if err == nil {
		sess := h.sessions.get(c)
		sess.mu.Lock()
		sess.state.ApplyStatus(id, status)
		sess.mu.Unlock()
	}

	redirect(c, err)
}

// Delete removes a book. Same reconciliation contract as UpdateStatus.
func (h *Handler) Delete(c *gin.Context) {
	id := c.PostForm("id")

	err := h.service.Remove(c.Request.Context(), id)
	if err == nil {
		sess := h.sessions.get(c)
		sess.mu.Lock()
		sess.state.ApplyRemove(id)
		sess.mu.Unlock()
	}

	redirect(c, err)
}

// Dismiss drops a failed upload placeholder.
func (h *Handler) Dismiss(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.mu.Lock()
	sess.state.Dismiss(c.PostForm("cid"))
	sess.mu.Unlock()

	redirect(c, nil)
}

func redirect(c *gin.Context, err error) {
	target := "/"
	if err != nil {
		target = "/?err=" + url.QueryEscape(err.Error())
	}
	c.Redirect(http.StatusSeeOther, target)
}
