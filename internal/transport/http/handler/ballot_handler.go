package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/service"
	httpez "online-voting-backend/internal/transport/http/ez"
	mdw "online-voting-backend/internal/transport/http/middleware"
)

type BallotHandler struct {
	svc    *service.BallotService
	tokens mdw.TokenParser
}

func NewBallotHandler(svc *service.BallotService, tokens mdw.TokenParser) *BallotHandler {
	return &BallotHandler{svc: svc, tokens: tokens}
}

type voteIn struct {
	CandidateID int64 `json:"candidate_id" binding:"required,gt=0"`
}

func (h *BallotHandler) MountAPI(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g.Group("/users")), httpez.Action[voteIn, *domain.Vote]{
		Method:     http.MethodPost,
		Path:       "/vote",
		Binder:     httpez.BindJSON,
		StatusOf:   userStatus,
		Middleware: []gin.HandlerFunc{mdw.Bearer(h.tokens)},
		Handler: func(c *gin.Context, in *voteIn) (*domain.Vote, error) {
			claims, err := claimsOf(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Cast(c.Request.Context(), claims.UserID, in.CandidateID)
		},
	})
}

// 在账号路由之后挂载
func (h *BallotHandler) Priority() int { return 110 }
