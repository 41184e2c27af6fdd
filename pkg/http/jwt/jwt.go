package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

type AuthClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair 登录与刷新返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

var (
	issUser = "suitx"

	ErrInvalidToken = errors.New(http.InvalidToken.Msg)
	ErrTokenExpired = errors.New(http.TokenExpired.Msg)
)

// GenToken 生成 access_token 和 refresh_token，过期时间单位为分钟
// refresh_token 的 subject 为 userId，刷新时用于校验归属
func GenToken(userId string, secretKey []byte, accessExpired, refreshExpired time.Duration) (*TokenPair, error) {
	now := time.Now()
	accessAt := now.Add(accessExpired * time.Minute)

	aClaims := &AuthClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issUser,
			ExpiresAt: jwt.NewNumericDate(accessAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	aToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if err != nil {
		log.Errorw("sign access token failed", "error", err)
		return nil, err
	}

	rClaims := jwt.RegisteredClaims{
		Issuer:    issUser,
		Subject:   userId,
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshExpired * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	rToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if err != nil {
		log.Errorw("sign refresh token failed", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  aToken,
		RefreshToken: rToken,
		ExpiresAt:    accessAt.Unix(),
	}, nil
}

func keyFunc(secretKey string) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}
}

// ParseToken 校验 access_token
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, keyFunc(secretKey))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshToken 校验 refresh_token 并签发新令牌对
func RefreshToken(auth *http.Auth, userId, rToken string) (*TokenPair, error) {
	var refreshClaims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(rToken, &refreshClaims, keyFunc(auth.SecretKey))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || refreshClaims.Subject != userId {
		return nil, ErrInvalidToken
	}

	return GenToken(userId, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
}
