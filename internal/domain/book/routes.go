package book

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the books API. There is no auth layer; the
// service manages a single personal library.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	books := r.Group("/books")
	{
		books.GET("", h.List)
		books.POST("", h.Upload)
		books.PATCH("/:id/status", h.UpdateStatus)
		books.DELETE("/:id", h.Delete)
		books.DELETE("", h.DeleteAll)
	}
}
