package auth

import (
	"crypto/subtle"

	"online-voting-backend/internal/domain"
)

// AdminGuard checks the static admin API key. There is no session or expiry.
type AdminGuard struct {
	key []byte
}

func NewAdminGuard(key string) *AdminGuard { return &AdminGuard{key: []byte(key)} }

func (g *AdminGuard) Verify(supplied string) error {
	if g == nil || len(g.key) == 0 || supplied == "" {
		return domain.Forbidden(domain.MsgInvalidAdminKey)
	}
	if subtle.ConstantTimeCompare(g.key, []byte(supplied)) != 1 {
		return domain.Forbidden(domain.MsgInvalidAdminKey)
	}
	return nil
}
