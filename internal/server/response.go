package server

import (
	"github.com/gin-gonic/gin"

	"github.com/limaJavier/sectiontable/internal/service"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Error *service.Error `json:"error,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func respond(c *gin.Context, status int, data any, meta map[string]any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

func respondError(c *gin.Context, err error) {
	appErr := service.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}
