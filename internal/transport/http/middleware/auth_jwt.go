package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/transport/http/ez"
)

const KeyClaims = "claims"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Bearer 校验 Authorization: Bearer <token>，通过后把 claims 放进 context
func Bearer(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		const prefix = "bearer "
		if len(ah) <= len(prefix) || !strings.EqualFold(ah[:len(prefix)], prefix) {
			ez.Fail(c, domain.Unauthorized(domain.MsgMissingToken, nil), nil)
			return
		}
		claims, err := p.Parse(strings.TrimSpace(ah[len(prefix):]))
		if err != nil {
			ez.Fail(c, err, nil)
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom 取 Bearer 中间件写入的 claims
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
