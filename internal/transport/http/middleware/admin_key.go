package middleware

import (
	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/transport/http/ez"
)

const DefaultAdminHeader = "x-api-key"

// AdminKey 管理端静态密钥校验，失败一律 403
func AdminKey(g *auth.AdminGuard, header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultAdminHeader
	}
	return func(c *gin.Context) {
		if err := g.Verify(c.GetHeader(header)); err != nil {
			ez.Fail(c, err, nil)
			return
		}
		c.Next()
	}
}
