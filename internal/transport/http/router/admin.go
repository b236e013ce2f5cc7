package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"online-voting-backend/internal/transport/http/handler"
)

// NewAdminEngine 只暴露管理端（内网端口）
func NewAdminEngine(l *zap.Logger, reg *Registry, o Options) *gin.Engine {
	r := newEngine(l, o)

	r.GET("/health", handler.Health)

	mountAdmin(r, reg, o)
	return r
}
