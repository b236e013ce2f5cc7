package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/core/server"
	mdw "online-voting-backend/internal/transport/http/middleware"
)

// Options 两个 engine 共用的中间件参数
type Options struct {
	MaxBodyBytes int64
	MaxInFlight  int64
	AdminGuard   *auth.AdminGuard
	AdminHeader  string
}

func newEngine(l *zap.Logger, o Options) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	return r
}

func mountAdmin(r *gin.Engine, reg *Registry, o Options) {
	admin := r.Group("/admin")
	admin.Use(mdw.AdminKey(o.AdminGuard, o.AdminHeader))
	reg.MountAdmin(admin)
}
