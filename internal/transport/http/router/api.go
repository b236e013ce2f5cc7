package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewAPIEngine 完整服务：/users、/admin、/health、/metrics
func NewAPIEngine(l *zap.Logger, reg *Registry, o Options) *gin.Engine {
	r := newEngine(l, o)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reg.MountAPI(r.Group(""))
	mountAdmin(r, reg, o)
	return r
}
