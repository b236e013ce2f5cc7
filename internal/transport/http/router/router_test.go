package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/service"
	"online-voting-backend/internal/testutil"
	"online-voting-backend/internal/transport/http/handler"
	resp "online-voting-backend/internal/transport/http/response"
	"online-voting-backend/internal/transport/http/router"
	"online-voting-backend/pkg/utils"
)

const adminKey = "admin-key"

func init() { gin.SetMode(gin.TestMode) }

type app struct {
	api   *gin.Engine
	admin *gin.Engine
	jwter *auth.JWTer
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := testutil.NewStore(t)
	l := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "voting-test", TTL: time.Hour}
	candidates := handler.NewCandidateHandler(service.NewCandidateService(store, l))
	opts := router.Options{
		MaxBodyBytes: 1 << 20,
		MaxInFlight:  16,
		AdminGuard:   auth.NewAdminGuard(adminKey),
	}

	reg := router.NewRegistry(
		handler.NewHealthHandler("online-voting-backend"),
		handler.NewAccountHandler(service.NewAccountService(store, utils.BcryptHasher{Cost: 4}, jwter, l), jwter),
		handler.NewBallotHandler(service.NewBallotService(store, l), jwter),
		candidates,
	)
	return &app{
		api:   router.NewAPIEngine(l, reg, opts),
		admin: router.NewAdminEngine(l, router.NewRegistry(candidates), opts),
		jwter: jwter,
	}
}

func (a *app) do(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
	return w
}

func adminHeaders() map[string]string { return map[string]string{"x-api-key": adminKey} }

func (a *app) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(a.api, http.MethodGet, "/users/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Message            string `json:"message"`
		Token              string `json:"token"`
		AuthenticationType string `json:"authentication_type"`
	}
	testutil.DecodeJSON(t, w, &out)
	assert.Equal(t, domain.MsgUserLoggedIn, out.Message)
	assert.Equal(t, "Bearer", out.AuthenticationType)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func requireEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var e resp.Resp
	testutil.DecodeJSON(t, w, &e)
	assert.Equal(t, status, e.Code)
	if msg != "" {
		assert.Equal(t, msg, e.Msg)
	}
}

func TestHealthAndRoot(t *testing.T) {
	a := newApp(t)

	w := a.do(a.api, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Healthy","status":200}`, w.Body.String())

	w = a.do(a.api, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)

	w = a.do(a.admin, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(t)
	a.do(a.api, http.MethodGet, "/health", nil, nil)

	w := a.do(a.api, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "voting_http_requests_total")
}

// 注册 → 登录 → 投给不存在的候选人 → 管理端新增 → 投票 → 重复投票 → 计票
func TestVotingScenario(t *testing.T) {
	a := newApp(t)

	w := a.do(a.api, http.MethodPost, "/users/register",
		map[string]string{"email": "a@x.com", "name": "A", "password": "pw1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u map[string]any
	testutil.DecodeJSON(t, w, &u)
	assert.Equal(t, "a@x.com", u["email"])
	assert.Equal(t, "A", u["name"])
	assert.Equal(t, true, u["is_active"])
	assert.NotEmpty(t, u["id"])
	assert.NotContains(t, u, "password_hash")

	tok := a.login(t, "a@x.com", "pw1")

	w = a.do(a.api, http.MethodPost, "/users/vote", map[string]int{"candidate_id": 5}, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgCandidateNotFound)

	w = a.do(a.api, http.MethodPost, "/admin/candidates",
		map[string]any{"id": 5, "name": "C5", "party": "PA"}, adminHeaders())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":5,"name":"C5","party":"PA"}`, w.Body.String())

	w = a.do(a.api, http.MethodPost, "/users/vote", map[string]int{"candidate_id": 5}, testutil.Bearer(tok))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v domain.Vote
	testutil.DecodeJSON(t, w, &v)
	assert.Equal(t, u["id"], v.UserID)
	assert.Equal(t, int64(5), v.CandidateID)

	w = a.do(a.api, http.MethodPost, "/users/vote", map[string]int{"candidate_id": 5}, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgAlreadyVoted)

	w = a.do(a.api, http.MethodGet, "/admin/candidates", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"candidate_id":5,"name":"C5","vote_count":1}]`, w.Body.String())

	// 管理端口看到同一份数据
	w = a.do(a.admin, http.MethodGet, "/admin/candidates/5", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"candidate_id":5,"name":"C5","vote_count":1}`, w.Body.String())
}

func TestRegisterAndLoginErrors(t *testing.T) {
	a := newApp(t)
	body := map[string]string{"email": "a@x.com", "name": "A", "password": "pw1"}
	require.Equal(t, http.StatusCreated, a.do(a.api, http.MethodPost, "/users/register", body, nil).Code)

	w := a.do(a.api, http.MethodPost, "/users/register", body, nil)
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgUserExists)

	w = a.do(a.api, http.MethodPost, "/users/register", map[string]string{"email": "nope", "name": "A", "password": "x"}, nil)
	requireEnvelope(t, w, http.StatusBadRequest, "")

	w = a.do(a.api, http.MethodGet, "/users/login", map[string]string{"email": "b@x.com", "password": "pw1"}, nil)
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgUserNotFound)

	w = a.do(a.api, http.MethodGet, "/users/login", map[string]string{"email": "a@x.com", "password": "bad"}, nil)
	requireEnvelope(t, w, http.StatusUnauthorized, domain.MsgInvalidCredentials)
}

func TestProfileLifecycle(t *testing.T) {
	a := newApp(t)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		w := a.do(a.api, http.MethodPost, "/users/register",
			map[string]string{"email": email, "name": "N", "password": "pw"}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	tok := a.login(t, "a@x.com", "pw")

	w := a.do(a.api, http.MethodGet, "/users/me", nil, testutil.Bearer(tok))
	require.Equal(t, http.StatusOK, w.Code)
	var claims auth.Claims
	testutil.DecodeJSON(t, w, &claims)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.NotEmpty(t, claims.UserID)

	w = a.do(a.api, http.MethodPatch, "/users/me", map[string]string{"email": "b@x.com"}, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgUserExists)

	w = a.do(a.api, http.MethodPatch, "/users/me", map[string]any{"name": "Alice", "is_active": false}, testutil.Bearer(tok))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var upd struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	testutil.DecodeJSON(t, w, &upd)
	assert.Equal(t, domain.MsgUserUpdated, upd.Message)
	assert.Equal(t, "Alice", upd.User["name"])
	assert.Equal(t, "a@x.com", upd.User["email"])
	assert.Equal(t, false, upd.User["is_active"])

	w = a.do(a.api, http.MethodDelete, "/users/me", nil, testutil.Bearer(tok))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"`+domain.MsgUserDeleted+`","status":200}`, w.Body.String())

	// 令牌仍有效，但账号已不存在
	w = a.do(a.api, http.MethodDelete, "/users/me", nil, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgUserNotFound)
}

func TestUserAuthBoundary(t *testing.T) {
	a := newApp(t)

	w := a.do(a.api, http.MethodGet, "/users/me", nil, nil)
	requireEnvelope(t, w, http.StatusUnauthorized, domain.MsgMissingToken)

	w = a.do(a.api, http.MethodGet, "/users/me", nil, testutil.Bearer("garbage"))
	requireEnvelope(t, w, http.StatusUnauthorized, "")

	expired := &auth.JWTer{Secret: a.jwter.Secret, Issuer: a.jwter.Issuer, TTL: -time.Hour}
	tok, err := expired.Issue("u-1", "a@x.com")
	require.NoError(t, err)
	w = a.do(a.api, http.MethodGet, "/users/me", nil, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusUnauthorized, "")

	w = a.do(a.api, http.MethodPost, "/users/vote", map[string]int{"candidate_id": 1}, testutil.Bearer(tok))
	requireEnvelope(t, w, http.StatusUnauthorized, "")
}

func TestAdminAuthBoundary(t *testing.T) {
	a := newApp(t)
	for _, r := range []*gin.Engine{a.api, a.admin} {
		w := a.do(r, http.MethodGet, "/admin/candidates", nil, nil)
		requireEnvelope(t, w, http.StatusForbidden, "")

		w = a.do(r, http.MethodPost, "/admin/candidates",
			map[string]any{"id": 1, "name": "C1", "party": "P"}, map[string]string{"x-api-key": "wrong"})
		requireEnvelope(t, w, http.StatusForbidden, "")
	}
}

func TestCandidateAdmin(t *testing.T) {
	a := newApp(t)
	h := adminHeaders()

	w := a.do(a.api, http.MethodPost, "/admin/candidates", map[string]any{"id": 1, "name": "C1", "party": "P"}, h)
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(a.api, http.MethodPost, "/admin/candidates", map[string]any{"id": 1, "name": "dup", "party": "P"}, h)
	requireEnvelope(t, w, http.StatusInternalServerError, domain.MsgCandidateExists)

	w = a.do(a.api, http.MethodPost, "/admin/candidates", map[string]any{"id": 0, "name": "zero", "party": "P"}, h)
	requireEnvelope(t, w, http.StatusBadRequest, "")

	w = a.do(a.api, http.MethodPut, "/admin/candidates/1", map[string]string{"name": "C1b", "party": "Q"}, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"C1b","party":"Q"}`, w.Body.String())

	w = a.do(a.api, http.MethodPut, "/admin/candidates/9", map[string]string{"name": "x", "party": "y"}, h)
	requireEnvelope(t, w, http.StatusNotFound, domain.MsgCandidateNotFound)

	w = a.do(a.api, http.MethodGet, "/admin/candidates/abc", nil, h)
	requireEnvelope(t, w, http.StatusBadRequest, domain.MsgInvalidCandidateID)

	w = a.do(a.api, http.MethodGet, "/admin/candidates/9", nil, h)
	requireEnvelope(t, w, http.StatusNotFound, domain.MsgCandidateNotFound)

	// 有票的候选人不能删
	require.Equal(t, http.StatusCreated, a.do(a.api, http.MethodPost, "/users/register",
		map[string]string{"email": "v@x.com", "name": "V", "password": "pw"}, nil).Code)
	tok := a.login(t, "v@x.com", "pw")
	require.Equal(t, http.StatusOK, a.do(a.api, http.MethodPost, "/users/vote",
		map[string]int{"candidate_id": 1}, testutil.Bearer(tok)).Code)

	w = a.do(a.api, http.MethodDelete, "/admin/candidates/1", nil, h)
	requireEnvelope(t, w, http.StatusConflict, domain.MsgCandidateHasVotes)

	require.Equal(t, http.StatusCreated, a.do(a.api, http.MethodPost, "/admin/candidates",
		map[string]any{"id": 2, "name": "C2", "party": "P"}, h).Code)
	w = a.do(a.api, http.MethodDelete, "/admin/candidates/2", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"`+domain.MsgCandidateDeleted+`","status":200}`, w.Body.String())

	w = a.do(a.api, http.MethodDelete, "/admin/candidates/2", nil, h)
	requireEnvelope(t, w, http.StatusNotFound, domain.MsgCandidateNotFound)

	w = a.do(a.api, http.MethodGet, "/admin/candidates", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "["))
	assert.JSONEq(t, `[{"candidate_id":1,"name":"C1b","vote_count":1}]`, w.Body.String())
}
