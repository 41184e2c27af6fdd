package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func register(t *testing.T, h *harness, username string) *model.Identity {
	t.Helper()
	identity, err := h.user.Register(context.Background(), &model.Register{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	return identity
}

func TestRegister(t *testing.T) {
	h := newHarness()
	identity := register(t, h, "alice")
	assert.NotEmpty(t, identity.UserId)

	stored, err := h.users.GetByUserId(context.Background(), identity.UserId)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.Password)
	assert.Len(t, h.mailer.sent(MailKindWelcome), 1)

	_, err = h.user.Register(context.Background(), &model.Register{Username: "alice", Password: "x"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = h.user.Register(context.Background(), &model.Register{Username: "  ", Password: "x"})
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestLoginLogoutRefresh(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	identity := register(t, h, "alice")

	_, err := h.user.Login(ctx, &model.Login{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = h.user.Login(ctx, &model.Login{Username: "bob", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrBadCredentials)

	resp, err := h.user.Login(ctx, &model.Login{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, identity.UserId, resp.UserInfo.UserId)
	assert.NotEmpty(t, resp.Token.AccessToken)

	stored, err := h.session.Get(ctx, consts.UserTokenKey+identity.UserId).Result()
	require.NoError(t, err)
	assert.Equal(t, resp.Token.RefreshToken, stored)

	user, _ := h.users.GetByUserId(ctx, identity.UserId)
	require.NotNil(t, user.LastLoginAt)

	_, err = h.user.Refresh(ctx, identity.UserId, "forged")
	assert.Equal(t, KindForbidden, KindOf(err))

	tokens, err := h.user.Refresh(ctx, identity.UserId, resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	require.NoError(t, h.user.Logout(ctx, identity.UserId))
	_, err = h.user.Refresh(ctx, identity.UserId, tokens.RefreshToken)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestLogin_DisabledAccount(t *testing.T) {
	h := newHarness()
	identity := register(t, h, "alice")
	h.users.users[identity.UserId].IsActive = false

	_, err := h.user.Login(context.Background(), &model.Login{Username: "alice", Password: "s3cret!"})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestResolve_CachedAndInvalidated(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	identities := cache.NewFastCache(cache.FastCacheConfig{})
	h.user = newUserService(h.users, h.session, identities, h.settings, h.user.auth, h.mailer)
	h.addUser("u1", "carol")

	got, err := h.user.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)

	// 直接改库，缓存仍返回旧值
	h.users.users["u1"].FirstName = "Caroline"
	got, err = h.user.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "carol", got.FirstName)

	first := "Caroline"
	_, err = h.user.UpdateProfile(ctx, "u1", &model.UpdateProfileReq{FirstName: &first})
	require.NoError(t, err)
	got, err = h.user.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Caroline", got.FirstName)

	_, err = h.user.Resolve(ctx, "ghost")
	assert.Equal(t, KindNotFound, KindOf(err))
	_, err = h.user.Resolve(ctx, "")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.addUser("u1", "carol")

	bio := "risk analyst"
	dept := "PMO"
	user, err := h.user.UpdateProfile(ctx, "u1", &model.UpdateProfileReq{Bio: &bio, Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "risk analyst", user.Bio)
	assert.Equal(t, "PMO", user.Department)

	_, err = h.user.GetProfile(ctx, "ghost")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSessionTTLMatchesRefreshExpire(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	identity := register(t, h, "alice")

	_, err := h.user.Login(ctx, &model.Login{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	ttl, err := h.session.TTL(ctx, consts.UserTokenKey+identity.UserId).Result()
	require.NoError(t, err)
	assert.InDelta(t, float64(120*time.Minute), float64(ttl), float64(time.Minute))
}

func TestUpdateProfile_InvalidateFailureIsLogged(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.user = newUserService(h.users, h.session, failingDelCache{cache.NewFastCache(cache.FastCacheConfig{})}, h.settings, h.user.auth, h.mailer)
	h.addUser("u1", "carol")

	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(log.ReplaceLogger(zap.New(core, zap.AddCallerSkip(1), zap.AddCaller())))

	bio := "planner"
	user, err := h.user.UpdateProfile(ctx, "u1", &model.UpdateProfileReq{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "planner", user.Bio)

	warned := logs.FilterMessage("invalidate identity cache failed").AllUntimed()
	require.Len(t, warned, 1)
	assert.Equal(t, "u1", warned[0].ContextMap()["userId"])
}

func TestSearch(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	register(t, h, "alice")
	register(t, h, "alina")
	bob := register(t, h, "bob")
	h.users.users[bob.UserId].Email = "ali.bob@example.com"
	hidden := register(t, h, "alix")
	_, err := h.settings.Save(ctx, hidden.UserId, &model.UpdateSettingsReq{
		Privacy: map[string]any{model.PrivacySearchVisible: false},
	})
	require.NoError(t, err)

	users, err := h.user.Search(ctx, "  ali ")
	require.NoError(t, err)
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
		assert.Empty(t, u.Password)
	}
	assert.Equal(t, []string{"alice", "alina", "bob"}, names)

	_, err = h.user.Search(ctx, "   ")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestGetByUsername(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	identity := register(t, h, "alice")

	user, err := h.user.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, identity.UserId, user.UserId)

	_, err = h.user.GetByUsername(ctx, "nobody")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name     string
		req      *model.ChangePasswordReq
		wantErr  error
		wantKind Kind
	}{
		{name: "missing fields", req: &model.ChangePasswordReq{NewPassword: "n3w"}, wantKind: KindInvalidArgument},
		{name: "wrong current", req: &model.ChangePasswordReq{CurrentPassword: "guess", NewPassword: "n3w"}, wantErr: ErrWrongPassword},
		{name: "changed", req: &model.ChangePasswordReq{CurrentPassword: "s3cret!", NewPassword: "n3w-s3cret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			ctx := context.Background()
			identity := register(t, h, "alice")
			_, err := h.user.Login(ctx, &model.Login{Username: "alice", Password: "s3cret!"})
			require.NoError(t, err)

			err = h.user.ChangePassword(ctx, identity.UserId, tt.req)
			sessionKey := consts.UserTokenKey + identity.UserId
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantKind != KindInternal:
				assert.Equal(t, tt.wantKind, KindOf(err))
			default:
				require.NoError(t, err)
				n, _ := h.session.Exists(ctx, sessionKey).Result()
				assert.Zero(t, n)

				_, err = h.user.Login(ctx, &model.Login{Username: "alice", Password: "s3cret!"})
				assert.ErrorIs(t, err, ErrBadCredentials)
				_, err = h.user.Login(ctx, &model.Login{Username: "alice", Password: "n3w-s3cret"})
				require.NoError(t, err)
				return
			}
			// 失败时会话保留
			n, _ := h.session.Exists(ctx, sessionKey).Result()
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestChangePassword_UnknownUser(t *testing.T) {
	h := newHarness()
	err := h.user.ChangePassword(context.Background(), "ghost", &model.ChangePasswordReq{CurrentPassword: "a", NewPassword: "b"})
	assert.Equal(t, KindNotFound, KindOf(err))
}
