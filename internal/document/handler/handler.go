package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/collab-editor/internal/document"
	"github.com/gogotex/collab-editor/internal/document/service"
)

// Registry is the document registry surface exposed over HTTP.
type Registry interface {
	List() []document.Summary
	Get(id string) (*document.Document, error)
	Create(title string) *document.Document
}

// RegisterDocumentRoutes mounts list/get/create on r. Call it on a group to
// add a prefix.
func RegisterDocumentRoutes(r gin.IRouter, reg Registry) {
	r.GET("/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, reg.List())
	})

	r.GET("/documents/:id", func(c *gin.Context) {
		d, err := reg.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.POST("/documents", func(c *gin.Context) {
		// no validation: an absent or unreadable body just means no title
		var req struct {
			Title string `json:"title"`
		}
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, reg.Create(req.Title))
	})
}
