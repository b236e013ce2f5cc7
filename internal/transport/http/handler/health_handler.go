package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "online-voting-backend/internal/transport/http/response"
)

type HealthHandler struct{ name string }

func NewHealthHandler(appName string) *HealthHandler { return &HealthHandler{name: appName} }

func (h *HealthHandler) MountAPI(g *gin.RouterGroup) {
	g.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to " + h.name})
	})
	g.GET("/health", Health)
}

func (h *HealthHandler) Priority() int { return 0 }

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, resp.Status{Message: "Healthy", Status: http.StatusOK})
}
