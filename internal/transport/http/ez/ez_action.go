package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"online-voting-backend/internal/domain"
	resp "online-voting-backend/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定（GET 带 body 也可）
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 默认错误映射；单个路由可用 Action.StatusOf 覆盖
var defaultStatus = map[domain.Kind]int{
	domain.KindInvalid:      http.StatusBadRequest,
	domain.KindConflict:     http.StatusBadRequest,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindInternal:     http.StatusInternalServerError,
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method     string // GET | POST | PUT | PATCH | DELETE
	Path       string
	Binder     Binder
	Status     int // 成功状态码，默认 200
	StatusOf   map[domain.Kind]int
	Middleware []gin.HandlerFunc // 路由级中间件（鉴权等）
	Handler    func(c *gin.Context, in *I) (O, error)
}

// StatusFor 把错误映射成 HTTP 状态码
func StatusFor(err error, override map[domain.Kind]int) int {
	k := domain.KindOf(err)
	if s, ok := override[k]; ok {
		return s
	}
	return defaultStatus[k]
}

// Fail 写错误信封，并把错误挂到 gin context 供访问日志输出
func Fail(c *gin.Context, err error, override map[domain.Kind]int) {
	status := StatusFor(err, override)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp.Error(status, err.Error()))
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, domain.Invalid(bindErr.Error()), nil)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err, a.StatusOf)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	handlers := append(append([]gin.HandlerFunc(nil), a.Middleware...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
