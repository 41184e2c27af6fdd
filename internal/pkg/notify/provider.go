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

import (
	"time"

	"github.com/go-arcade/suitx/internal/pkg/notify/auth"
	"github.com/go-arcade/suitx/internal/pkg/notify/channel"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides notify layer related dependencies
var ProviderSet = wire.NewSet(
	ProvideNotifyManager,
)

// ProvideNotifyManager builds the manager from the mail and webhook config.
// A channel that fails validation is skipped with a warning.
func ProvideNotifyManager(mail *MailConfig, webhook *WebhookConfig) *NotifyManager {
	manager := NewNotifyManager(mail.AppUrl)

	if mail.Enable {
		email := channel.NewEmailChannel(channel.EmailConfig{
			Host:     mail.Host,
			Port:     mail.Port,
			From:     mail.From,
			FromName: mail.FromName,
			UseTLS:   mail.UseTLS,
			Timeout:  time.Duration(mail.Timeout) * time.Second,
		})
		if mail.Username != "" {
			if err := email.SetAuth(auth.NewBasicAuth(mail.Username, mail.Password)); err != nil {
				log.Warnw("invalid smtp credentials, email channel disabled", "error", err)
			}
		}
		if err := manager.RegisterChannel(ChannelTypeEmail, email); err != nil {
			log.Warnw("email channel disabled", "error", err)
		}
	}

	if webhook.Enable {
		wh := channel.NewWebhookChannel(webhook.Url, time.Duration(webhook.Timeout)*time.Second)
		provider, err := auth.NewAuthProvider(auth.Config{Type: auth.AuthType(webhook.AuthType), Token: webhook.Token, APIKey: webhook.Token})
		if err != nil {
			log.Warnw("invalid webhook auth config", "error", err)
		} else if err := wh.SetAuth(provider); err != nil {
			log.Warnw("invalid webhook auth", "error", err)
		}
		if err := manager.RegisterChannel(ChannelTypeWebhook, wh); err != nil {
			log.Warnw("webhook channel disabled", "error", err)
		}
	}

	log.Infow("notify manager initialized", "channels", manager.ListChannels())
	return manager
}
