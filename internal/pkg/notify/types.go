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

package notify

// ChannelType represents the notification channel type
type ChannelType string

const (
	ChannelTypeWebhook ChannelType = "webhook"
	ChannelTypeEmail   ChannelType = "email"
)

// MailConfig SMTP 邮件配置，Timeout 单位为秒
type MailConfig struct {
	Enable      bool
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FromName    string
	UseTLS      bool
	Timeout     int
	MaxAttempts int
	AppUrl      string
}

func (m *MailConfig) SetDefaults() {
	if m.Port == 0 {
		m.Port = 587
	}
	if m.FromName == "" {
		m.FromName = "SuitX"
	}
	if m.Timeout == 0 {
		m.Timeout = 10
	}
	if m.MaxAttempts == 0 {
		m.MaxAttempts = 3
	}
	if m.AppUrl == "" {
		m.AppUrl = "http://localhost:5173"
	}
}

// WebhookConfig 站内通知镜像推送配置，Timeout 单位为秒
type WebhookConfig struct {
	Enable   bool
	Url      string
	Timeout  int
	AuthType string
	Token    string
}
