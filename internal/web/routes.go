package web

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the UI: one page plus the intent endpoints the
// forms post to.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", h.Index)

	ui := r.Group("/ui")
	{
		ui.POST("/view", h.SetView)
		ui.POST("/upload", h.Upload)
		ui.POST("/read", h.Read)
		ui.POST("/back", h.Back)
		ui.POST("/status", h.UpdateStatus)
		ui.POST("/delete", h.Delete)
		ui.POST("/dismiss", h.Dismiss)
	}
}
