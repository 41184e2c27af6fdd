package router

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	ErrMsg string `json:"errMsg"`
	Path   string `json:"path"`
}

func newTestApp(exposeMetrics bool) *fiber.App {
	conf := &http.Http{ExposeMetrics: exposeMetrics, Auth: http.Auth{SecretKey: "router-secret"}}
	conf.SetDefaults()
	rt := NewRouter(conf, &service.Services{}, cache.NewFastCache(cache.FastCacheConfig{}), metrics.NewMetricsServer(metrics.MetricsConfig{}))
	return rt.Router()
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func decodeEnvelope(t *testing.T, raw string) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, sonic.UnmarshalString(raw, &e))
	return e
}

func TestRepFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *http.Response
	}{
		{"already member", service.ErrAlreadyMember, http.AlreadyMember},
		{"pending", fmt.Errorf("invite: %w", service.ErrInvitationPending), http.InvitationPending},
		{"user exists", service.ErrUserExists, http.UserAlreadyExist},
		{"not found", service.NotFound("project not found"), http.NotFound},
		{"forbidden", service.Forbidden("only the owner"), http.Forbidden},
		{"conflict", &service.Error{Kind: service.KindConflict, Msg: "dup"}, http.Conflict},
		{"not pending", service.ErrInvitationNotPending, http.InvitationNotPending},
		{"owner removal", service.ErrOwnerRemoval, http.InvitationNotPending},
		{"expired", service.ErrInvitationExpired, http.InvitationExpired},
		{"invalid", service.InvalidArgument("name is required"), http.BadRequest},
		{"store", errors.New("connection refused"), http.InternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.Code, repFor(tt.err).Code)
		})
	}
}

func TestFail_Messages(t *testing.T) {
	app := fiber.New()
	app.Get("/business", func(c *fiber.Ctx) error {
		return fail(c, service.ErrOwnerRemoval)
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return fail(c, errors.New("dial tcp 10.0.0.1:3306: i/o timeout"))
	})

	_, raw := call(t, app, "GET", "/business", "")
	e := decodeEnvelope(t, raw)
	assert.Equal(t, 4220, e.Code)
	assert.Equal(t, service.ErrOwnerRemoval.Msg, e.ErrMsg)
	assert.Equal(t, "/business", e.Path)

	_, raw = call(t, app, "GET", "/internal", "")
	e = decodeEnvelope(t, raw)
	assert.Equal(t, http.InternalError.Code, e.Code)
	assert.NotContains(t, e.ErrMsg, "10.0.0.1")
}

func TestOpsRoutes(t *testing.T) {
	app := newTestApp(true)

	status, raw := call(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", raw)

	_, raw = call(t, app, "GET", "/version", "")
	assert.Contains(t, raw, `"appName":"suitx"`)

	status, raw = call(t, app, "GET", "/metrics", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, raw, "go_goroutines")
}

func TestMetricsRouteDisabled(t *testing.T) {
	app := newTestApp(false)
	_, raw := call(t, app, "GET", "/metrics", "")
	assert.Equal(t, http.NotFound.Code, decodeEnvelope(t, raw).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(false)
	paths := []struct{ method, path string }{
		{"GET", "/api/v1/projects"},
		{"POST", "/api/v1/projects/p1/invitations"},
		{"POST", "/api/v1/invitations/i1/accept"},
		{"GET", "/api/v1/notifications/unread/count"},
		{"PUT", "/api/v1/tasks/t1"},
		{"POST", "/api/v1/user/logout"},
		{"GET", "/api/v1/user/search?q=ali"},
		{"GET", "/api/v1/user/u1"},
		{"GET", "/api/v1/user/username/alice"},
		{"GET", "/api/v1/user/settings"},
		{"PUT", "/api/v1/user/password"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			_, raw := call(t, app, p.method, p.path, "")
			assert.Equal(t, http.TokenBeEmpty.Code, decodeEnvelope(t, raw).Code)
		})
	}

	req := httptest.NewRequest("GET", "/api/v1/projects", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.AuthorizationIncorrect.Code, decodeEnvelope(t, string(raw)).Code)
}

func TestPublicRoutesValidateInput(t *testing.T) {
	app := newTestApp(false)

	_, raw := call(t, app, "POST", "/api/v1/user/login", "{not json")
	assert.Equal(t, http.RequestParameterParsingFailed.Code, decodeEnvelope(t, raw).Code)

	_, raw = call(t, app, "GET", "/api/v1/user/refresh?userId=u1", "")
	assert.Equal(t, http.TokenBeEmpty.Code, decodeEnvelope(t, raw).Code)
}

func TestUnknownPath(t *testing.T) {
	app := newTestApp(false)
	_, raw := call(t, app, "GET", "/api/v1/nothing-here", "")
	e := decodeEnvelope(t, raw)
	assert.Equal(t, http.NotFound.Code, e.Code)
	assert.Equal(t, "/api/v1/nothing-here", e.Path)
}
