package router

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/http/jwt"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubUserRepo 只读用户表
type stubUserRepo struct {
	users []model.User
}

func (r *stubUserRepo) Create(context.Context, *model.User) error { return nil }

func (r *stubUserRepo) GetByUserId(_ context.Context, userId string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].UserId == userId {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListByUserIds(context.Context, []string) ([]model.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Search(_ context.Context, keyword string, _ int) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if strings.Contains(u.Username, keyword) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(context.Context, string, map[string]any) error     { return nil }
func (r *stubUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

type stubSettingsRepo struct{}

func (stubSettingsRepo) Get(context.Context, string) (*model.UserSettings, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubSettingsRepo) ListByUserIds(context.Context, []string) ([]model.UserSettings, error) {
	return nil, nil
}

func (stubSettingsRepo) Upsert(context.Context, *model.UserSettings) error { return nil }

type detailEnvelope[T any] struct {
	Code   int `json:"code"`
	Detail T   `json:"detail"`
}

// newUserTestApp 用户 u1 已登录，返回其 access token
func newUserTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	conf := &http.Http{Auth: http.Auth{SecretKey: "router-secret", AccessExpire: 10, RefreshExpire: 20}}
	conf.SetDefaults()
	session := cache.NewFastCache(cache.FastCacheConfig{})

	users := &stubUserRepo{users: []model.User{
		{UserId: "u1", Username: "alice", Email: "alice@example.com", Password: "$2a$10$hash", IsActive: true},
		{UserId: "u2", Username: "alina", Email: "alina@example.com", Password: "$2a$10$hash", IsActive: true},
	}}
	settings := service.NewSettingsService(stubSettingsRepo{})
	services := &service.Services{
		User:     service.NewUserService(users, session, nil, settings, &conf.Auth, nil),
		Settings: settings,
	}

	pair, err := jwt.GenToken("u1", []byte(conf.Auth.SecretKey), conf.Auth.AccessExpire, conf.Auth.RefreshExpire)
	require.NoError(t, err)
	require.NoError(t, session.Set(context.Background(), consts.UserTokenKey+"u1", pair.RefreshToken, time.Hour).Err())

	rt := NewRouter(conf, services, session, metrics.NewMetricsServer(metrics.MetricsConfig{}))
	return rt.Router(), pair.AccessToken
}

func authCall(t *testing.T, app *fiber.App, token, method, path, body string) string {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestUserLookupRoutes(t *testing.T) {
	app, token := newUserTestApp(t)

	raw := authCall(t, app, token, "GET", "/api/v1/user/search?q=ali", "")
	var found detailEnvelope[[]map[string]any]
	require.NoError(t, sonic.UnmarshalString(raw, &found))
	assert.Equal(t, http.Success.Code, found.Code)
	require.Len(t, found.Detail, 2)
	assert.NotContains(t, raw, "$2a$10$hash")
	assert.NotContains(t, found.Detail[0], "password")

	raw = authCall(t, app, token, "GET", "/api/v1/user/username/alina", "")
	var byName detailEnvelope[model.User]
	require.NoError(t, sonic.UnmarshalString(raw, &byName))
	assert.Equal(t, "u2", byName.Detail.UserId)

	raw = authCall(t, app, token, "GET", "/api/v1/user/u2", "")
	var byId detailEnvelope[model.User]
	require.NoError(t, sonic.UnmarshalString(raw, &byId))
	assert.Equal(t, "alina", byId.Detail.Username)

	raw = authCall(t, app, token, "GET", "/api/v1/user/ghost", "")
	assert.Equal(t, http.NotFound.Code, decodeEnvelope(t, raw).Code)

	raw = authCall(t, app, token, "GET", "/api/v1/user/search?q=", "")
	assert.Equal(t, http.BadRequest.Code, decodeEnvelope(t, raw).Code)
}

func TestUserSettingsAndPasswordRoutes(t *testing.T) {
	app, token := newUserTestApp(t)

	// /settings 不能被当作 userId
	raw := authCall(t, app, token, "GET", "/api/v1/user/settings", "")
	var settings detailEnvelope[model.UserSettings]
	require.NoError(t, sonic.UnmarshalString(raw, &settings))
	assert.Equal(t, http.Success.Code, settings.Code)
	assert.Equal(t, "u1", settings.Detail.UserId)
	assert.Equal(t, "blue", settings.Detail.Theme["colorScheme"])

	raw = authCall(t, app, token, "PUT", "/api/v1/user/settings", `{"theme":{"darkMode":true}}`)
	require.NoError(t, sonic.UnmarshalString(raw, &settings))
	assert.Equal(t, true, settings.Detail.Theme["darkMode"])

	raw = authCall(t, app, token, "PUT", "/api/v1/user/settings", `{"theme":{"darkMode":"on"}}`)
	assert.Equal(t, http.BadRequest.Code, decodeEnvelope(t, raw).Code)

	raw = authCall(t, app, token, "PUT", "/api/v1/user/password", `{"currentPassword":"guess","newPassword":"n3w"}`)
	e := decodeEnvelope(t, raw)
	assert.Equal(t, http.BadRequest.Code, e.Code)
	assert.Equal(t, service.ErrWrongPassword.Msg, e.ErrMsg)
}
