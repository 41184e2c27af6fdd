// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/http/jwt"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityResolver 身份目录，按 userId 或用户名解析用户概要
type IdentityResolver interface {
	Resolve(ctx context.Context, userId string) (*model.Identity, error)
	ResolveUsername(ctx context.Context, username string) (*model.Identity, error)
}

// 用户搜索最多返回条数
const searchLimit = 20

type UserService struct {
	userRepo   repo.IUserRepository
	session    cache.ICache
	identities *cache.CachedQuery[model.Identity]
	settings   *SettingsService
	auth       *http.Auth
	mailer     Mailer
	now        func() time.Time
}

// NewUserService identityCache 为 nil 时身份查询直连数据库
func NewUserService(
	userRepo repo.IUserRepository,
	session cache.ICache,
	identityCache *cache.HybridCache,
	settings *SettingsService,
	auth *http.Auth,
	mailer Mailer,
) *UserService {
	var ic cache.ICache
	if identityCache != nil {
		ic = identityCache
	}
	return newUserService(userRepo, session, ic, settings, auth, mailer)
}

func newUserService(userRepo repo.IUserRepository, session, identityCache cache.ICache, settings *SettingsService, auth *http.Auth, mailer Mailer) *UserService {
	s := &UserService{
		userRepo: userRepo,
		session:  session,
		settings: settings,
		auth:     auth,
		mailer:   mailer,
		now:      time.Now,
	}
	s.identities = cache.NewCachedQuery(identityCache,
		func(params ...any) string {
			return consts.UserIdentityKey + params[0].(string)
		},
		s.loadIdentity,
		cache.WithTTL[model.Identity](30*time.Minute),
		cache.WithLogPrefix[model.Identity]("[Identity]"),
	)
	return s
}

func (s *UserService) loadIdentity(ctx context.Context, params ...any) (model.Identity, error) {
	user, err := s.userRepo.GetByUserId(ctx, params[0].(string))
	if err != nil {
		return model.Identity{}, notFoundOr(err, "user not found")
	}
	return *user.Identity(), nil
}

// Resolve 解析用户身份，不存在时返回 NOT_FOUND
func (s *UserService) Resolve(ctx context.Context, userId string) (*model.Identity, error) {
	if userId == "" {
		return nil, NotFound("user not found")
	}
	identity, err := s.identities.Get(ctx, userId)
	if err != nil {
		if KindOf(err) != KindNotFound {
			log.WithContext(ctx).Errorw("resolve identity failed", "userId", userId, "error", err)
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		return nil, err
	}
	return &identity, nil
}

// ResolveUsername 按用户名解析，旧项目的 createdBy 经此映射为 userId
func (s *UserService) ResolveUsername(ctx context.Context, username string) (*model.Identity, error) {
	if username == "" {
		return nil, NotFound("user not found")
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return user.Identity(), nil
}

// Register 注册用户，密码使用 bcrypt 存储
func (s *UserService) Register(ctx context.Context, req *model.Register) (*model.Identity, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" {
		return nil, InvalidArgument(http.UsernameArePasswordIsRequired.Msg)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		UserId:    id.GetUUIDWithoutDashes(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      "MEMBER",
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		log.WithContext(ctx).Errorw("create user failed", "username", req.Username, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.mailer != nil {
		s.mailer.Send(ctx, WelcomeEmail(user.Email, user.Username))
	}
	log.WithContext(ctx).Infow("user registered", "userId", user.UserId, "username", user.Username)
	return user.Identity(), nil
}

// Login 校验密码，签发令牌并写入会话
func (s *UserService) Login(ctx context.Context, req *model.Login) (*model.LoginResp, error) {
	if req.Username == "" || req.Password == "" {
		return nil, InvalidArgument(http.UsernameArePasswordIsRequired.Msg)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, Forbidden("account is disabled")
	}

	tokens, err := jwt.GenToken(user.UserId, []byte(s.auth.SecretKey), s.auth.AccessExpire, s.auth.RefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.session.Set(ctx, consts.UserTokenKey+user.UserId, tokens.RefreshToken, s.auth.RefreshExpire*time.Minute).Err(); err != nil {
		log.WithContext(ctx).Errorw("store session failed", "userId", user.UserId, "error", err)
		return nil, fmt.Errorf("store session: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.UserId, s.now()); err != nil {
		log.WithContext(ctx).Warnw("update last login failed", "userId", user.UserId, "error", err)
	}

	return &model.LoginResp{
		UserInfo: user.Identity(),
		Token:    tokenResp(tokens),
	}, nil
}

// Logout 删除会话，已签发的 access token 随之失效
func (s *UserService) Logout(ctx context.Context, userId string) error {
	if err := s.session.Del(ctx, consts.UserTokenKey+userId).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Refresh 使用仍在会话中的 refresh token 换取新令牌
func (s *UserService) Refresh(ctx context.Context, userId, refreshToken string) (*model.TokenResp, error) {
	stored, err := s.session.Get(ctx, consts.UserTokenKey+userId).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, Forbidden(http.TokenExpired.Msg)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored != refreshToken {
		return nil, Forbidden(http.InvalidToken.Msg)
	}

	tokens, err := jwt.RefreshToken(s.auth, userId, refreshToken)
	if err != nil {
		return nil, &Error{Kind: KindForbidden, Msg: "refresh token rejected", Err: err}
	}
	if err := s.session.Set(ctx, consts.UserTokenKey+userId, tokens.RefreshToken, s.auth.RefreshExpire*time.Minute).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return tokenResp(tokens), nil
}

func (s *UserService) GetProfile(ctx context.Context, userId string) (*model.User, error) {
	user, err := s.userRepo.GetByUserId(ctx, userId)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return user, nil
}

// GetByUsername 按用户名查看用户资料
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return user, nil
}

// Search 按用户名或邮箱搜索，排除关闭了搜索可见的用户
func (s *UserService) Search(ctx context.Context, keyword string) ([]model.User, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, InvalidArgument("search keyword is required")
	}
	users, err := s.userRepo.Search(ctx, keyword, searchLimit)
	if err != nil {
		log.WithContext(ctx).Errorw("search users failed", "keyword", keyword, "error", err)
		return nil, fmt.Errorf("search users: %w", err)
	}
	if s.settings == nil || len(users) == 0 {
		return stripPasswords(users), nil
	}

	userIds := make([]string, 0, len(users))
	for i := range users {
		userIds = append(userIds, users[i].UserId)
	}
	hidden, err := s.settings.hiddenFromSearch(ctx, userIds)
	if err != nil {
		return nil, err
	}
	visible := users[:0]
	for _, u := range users {
		if _, ok := hidden[u.UserId]; !ok {
			visible = append(visible, u)
		}
	}
	return stripPasswords(visible), nil
}

func stripPasswords(users []model.User) []model.User {
	for i := range users {
		users[i].Password = ""
	}
	return users
}

// ChangePassword 校验当前密码后重设，并删除会话使 refresh token 失效
func (s *UserService) ChangePassword(ctx context.Context, userId string, req *model.ChangePasswordReq) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return InvalidArgument("current password and new password are required")
	}
	user, err := s.userRepo.GetByUserId(ctx, userId)
	if err != nil {
		return notFoundOr(err, "user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Update(ctx, userId, map[string]any{"password": string(hashed)}); err != nil {
		log.WithContext(ctx).Errorw("update password failed", "userId", userId, "error", err)
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.session.Del(ctx, consts.UserTokenKey+userId).Err(); err != nil {
		log.WithContext(ctx).Errorw("revoke session after password change failed", "userId", userId, "error", err)
		return fmt.Errorf("revoke session: %w", err)
	}
	log.WithContext(ctx).Infow("password changed", "userId", userId)
	return nil
}

// UpdateProfile 更新资料并失效身份缓存
func (s *UserService) UpdateProfile(ctx context.Context, userId string, req *model.UpdateProfileReq) (*model.User, error) {
	updates := make(map[string]any)
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("email", req.Email)
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("bio", req.Bio)
	set("avatar", req.Avatar)
	set("phone", req.Phone)
	set("department", req.Department)

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userId, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrUserExists
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
		if err := s.identities.Invalidate(ctx, userId); err != nil {
			log.WithContext(ctx).Warnw("invalidate identity cache failed", "userId", userId, "error", err)
		}
	}
	return s.GetProfile(ctx, userId)
}

func tokenResp(tokens *jwt.TokenPair) *model.TokenResp {
	return &model.TokenResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}
}
