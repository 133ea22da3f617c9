package handler

import (
	"VideoForge/internal/config"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler interface {
	ShowConfig(c *gin.Context)
}

type adminHandler struct {
	cfg *config.Config
}

func NewAdminHandler(cfg *config.Config) AdminHandler {
	return &adminHandler{cfg: cfg}
}

// 展示当前配置，token类的值已打码
func (h *adminHandler) ShowConfig(c *gin.Context) {
	missing := h.cfg.Automation.Missing()
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"values":   h.cfg.Redacted(),
			"complete": len(missing) == 0,
			"missing":  missing,
		},
	})
}
