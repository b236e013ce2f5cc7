package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/service"
	httpez "online-voting-backend/internal/transport/http/ez"
	mdw "online-voting-backend/internal/transport/http/middleware"
	resp "online-voting-backend/internal/transport/http/response"
)

// 用户端路由统一把 NotFound 当作 400 返回
var userStatus = map[domain.Kind]int{domain.KindNotFound: http.StatusBadRequest}

type AccountHandler struct {
	svc    *service.AccountService
	tokens mdw.TokenParser
}

func NewAccountHandler(svc *service.AccountService, tokens mdw.TokenParser) *AccountHandler {
	return &AccountHandler{svc: svc, tokens: tokens}
}

type registerIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Name     string `json:"name"     binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Message            string `json:"message"`
	Token              string `json:"token"`
	AuthenticationType string `json:"authentication_type"`
}

type updateIn struct {
	Name     *string `json:"name"      binding:"omitempty,max=64"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

type updateOut struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

func (h *AccountHandler) MountAPI(g *gin.RouterGroup) {
	users := httpez.New(g.Group("/users"))
	bearer := []gin.HandlerFunc{mdw.Bearer(h.tokens)}

	httpez.RegisterAction(users, httpez.Action[registerIn, *domain.User]{
		Method:   http.MethodPost,
		Path:     "/register",
		Binder:   httpez.BindJSON,
		Status:   http.StatusCreated,
		StatusOf: userStatus,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.svc.Register(c.Request.Context(), service.RegisterInput{
				Email: in.Email, Name: in.Name, Password: in.Password,
			})
		},
	})

	// 登录沿用 GET + JSON body
	httpez.RegisterAction(users, httpez.Action[loginIn, loginOut]{
		Method:   http.MethodGet,
		Path:     "/login",
		Binder:   httpez.BindJSON,
		StatusOf: userStatus,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Message: domain.MsgUserLoggedIn, Token: tok, AuthenticationType: "Bearer"}, nil
		},
	})

	httpez.RegisterAction(users, httpez.Action[struct{}, *auth.Claims]{
		Method:     http.MethodGet,
		Path:       "/me",
		Binder:     httpez.BindNone,
		StatusOf:   userStatus,
		Middleware: bearer,
		Handler: func(c *gin.Context, _ *struct{}) (*auth.Claims, error) {
			return claimsOf(c)
		},
	})

	httpez.RegisterAction(users, httpez.Action[updateIn, updateOut]{
		Method:     http.MethodPatch,
		Path:       "/me",
		Binder:     httpez.BindJSON,
		StatusOf:   userStatus,
		Middleware: bearer,
		Handler: func(c *gin.Context, in *updateIn) (updateOut, error) {
			claims, err := claimsOf(c)
			if err != nil {
				return updateOut{}, err
			}
			u, err := h.svc.UpdateProfile(c.Request.Context(), claims.UserID, service.UpdateInput{
				Name: in.Name, Email: in.Email, IsActive: in.IsActive,
			})
			if err != nil {
				return updateOut{}, err
			}
			return updateOut{Message: domain.MsgUserUpdated, User: u}, nil
		},
	})

	httpez.RegisterAction(users, httpez.Action[struct{}, resp.Status]{
		Method:     http.MethodDelete,
		Path:       "/me",
		Binder:     httpez.BindNone,
		StatusOf:   userStatus,
		Middleware: bearer,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Status, error) {
			claims, err := claimsOf(c)
			if err != nil {
				return resp.Status{}, err
			}
			if err := h.svc.DeleteAccount(c.Request.Context(), claims.UserID); err != nil {
				return resp.Status{}, err
			}
			return resp.Status{Message: domain.MsgUserDeleted, Status: http.StatusOK}, nil
		},
	})
}

func claimsOf(c *gin.Context) (*auth.Claims, error) {
	claims, ok := mdw.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return nil, domain.Unauthorized(domain.MsgInvalidToken, nil)
	}
	return claims, nil
}
