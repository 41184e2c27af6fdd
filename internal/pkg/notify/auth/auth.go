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

package auth

import (
	"errors"
	"fmt"
)

// AuthType represents the authentication type
type AuthType string

const (
	AuthTypeNone   AuthType = ""
	AuthTypeAPIKey AuthType = "apikey" // API Key authentication
	AuthTypeBasic  AuthType = "basic"  // Basic authentication
	AuthTypeBearer AuthType = "bearer" // Bearer token authentication
)

// IAuthProvider defines the interface for authentication providers
type IAuthProvider interface {
	// GetAuthType gets the authentication type
	GetAuthType() AuthType
	// GetAuthHeader gets the authentication header key and value
	GetAuthHeader() (string, string)
	// Validate validates the authentication configuration
	Validate() error
}

// Config 认证配置，按 Type 选择字段
type Config struct {
	Type       AuthType
	Token      string
	APIKey     string
	HeaderName string
	Username   string
	Password   string
}

// NewAuthProvider 根据配置创建认证，Type 为空时返回 nil
func NewAuthProvider(cfg Config) (IAuthProvider, error) {
	var p IAuthProvider
	switch cfg.Type {
	case AuthTypeNone:
		return nil, nil
	case AuthTypeBearer:
		p = NewBearerAuth(cfg.Token)
	case AuthTypeAPIKey:
		p = NewAPIKeyAuth(cfg.APIKey, cfg.HeaderName)
	case AuthTypeBasic:
		p = NewBasicAuth(cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// BearerAuth implements bearer token authentication
type BearerAuth struct {
	Token string
}

func NewBearerAuth(token string) *BearerAuth {
	return &BearerAuth{Token: token}
}

func (a *BearerAuth) GetAuthType() AuthType {
	return AuthTypeBearer
}

func (a *BearerAuth) GetAuthHeader() (string, string) {
	return "Authorization", "Bearer " + a.Token
}

func (a *BearerAuth) Validate() error {
	if a.Token == "" {
		return errors.New("bearer token is required")
	}
	return nil
}

// APIKeyAuth API Key 认证
type APIKeyAuth struct {
	APIKey     string
	HeaderName string // 默认为 "X-API-Key"
}

func NewAPIKeyAuth(apiKey, headerName string) *APIKeyAuth {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	return &APIKeyAuth{
		APIKey:     apiKey,
		HeaderName: headerName,
	}
}

func (a *APIKeyAuth) GetAuthType() AuthType {
	return AuthTypeAPIKey
}

func (a *APIKeyAuth) GetAuthHeader() (string, string) {
	return a.HeaderName, a.APIKey
}

func (a *APIKeyAuth) Validate() error {
	if a.APIKey == "" {
		return errors.New("api key is required")
	}
	return nil
}

// BasicAuth implements basic authentication, also used for SMTP PLAIN auth
type BasicAuth struct {
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

func (a *BasicAuth) GetAuthType() AuthType {
	return AuthTypeBasic
}

func (a *BasicAuth) GetAuthHeader() (string, string) {
	return "Authorization", "Basic " + a.encodeBasicAuth()
}

func (a *BasicAuth) Validate() error {
	if a.Username == "" {
		return errors.New("username is required")
	}
	if a.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
