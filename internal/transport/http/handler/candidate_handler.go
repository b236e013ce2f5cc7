package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/service"
	httpez "online-voting-backend/internal/transport/http/ez"
	resp "online-voting-backend/internal/transport/http/response"
)

// CandidateHandler 管理端候选人接口；分组上已挂 AdminKey
type CandidateHandler struct {
	svc *service.CandidateService
}

func NewCandidateHandler(svc *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

type candidateIn struct {
	ID    int64  `json:"id"    binding:"required,gt=0"`
	Name  string `json:"name"  binding:"required,max=128"`
	Party string `json:"party" binding:"required,max=128"`
}

type candidateUpdateIn struct {
	Name  string `json:"name"  binding:"required,max=128"`
	Party string `json:"party" binding:"required,max=128"`
}

func (h *CandidateHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g.Group("/candidates"))

	// 重复 id 按既有约定回 500
	httpez.RegisterAction(ez, httpez.Action[candidateIn, *domain.Candidate]{
		Method:   http.MethodPost,
		Path:     "",
		Binder:   httpez.BindJSON,
		Status:   http.StatusCreated,
		StatusOf: map[domain.Kind]int{domain.KindConflict: http.StatusInternalServerError},
		Handler: func(c *gin.Context, in *candidateIn) (*domain.Candidate, error) {
			return h.svc.Add(c.Request.Context(), domain.Candidate{ID: in.ID, Name: in.Name, Party: in.Party})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Tally]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Tally, error) {
			return h.svc.ListTallies(c.Request.Context())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[candidateUpdateIn, *domain.Candidate]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *candidateUpdateIn) (*domain.Candidate, error) {
			id, err := candidateID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), id, in.Name, in.Party)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Status]{
		Method:   http.MethodDelete,
		Path:     "/:id",
		Binder:   httpez.BindNone,
		StatusOf: map[domain.Kind]int{domain.KindConflict: http.StatusConflict},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Status, error) {
			id, err := candidateID(c)
			if err != nil {
				return resp.Status{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return resp.Status{}, err
			}
			return resp.Status{Message: domain.MsgCandidateDeleted, Status: http.StatusOK}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Tally]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Tally, error) {
			id, err := candidateID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Tally(c.Request.Context(), id)
		},
	})
}

func candidateID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(domain.MsgInvalidCandidateID)
	}
	return id, nil
}
