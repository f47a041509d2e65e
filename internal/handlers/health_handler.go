package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/bay-scheduler/internal/httpresp"
)

type HealthHandler struct {
	store string
}

func NewHealthHandler(store string) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Get(c *gin.Context) {
	httpresp.OK(c, gin.H{"status": "ok", "store": h.store})
}
