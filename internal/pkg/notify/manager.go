package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-arcade/suitx/internal/pkg/notify/channel"
	"github.com/go-arcade/suitx/internal/pkg/notify/template"
)

// ErrChannelNotFound 渠道未启用或未注册
var ErrChannelNotFound = errors.New("notify channel not found")

// NotifyManager manages the notification channels and the email templates
type NotifyManager struct {
	channels map[ChannelType]channel.INotifyChannel
	engine   *template.TemplateEngine
	appUrl   string
	mu       sync.RWMutex
}

// NewNotifyManager creates a new notification manager
func NewNotifyManager(appUrl string) *NotifyManager {
	return &NotifyManager{
		channels: make(map[ChannelType]channel.INotifyChannel),
		engine:   template.NewTemplateEngine(),
		appUrl:   appUrl,
	}
}

// RegisterChannel registers a notification channel
func (nm *NotifyManager) RegisterChannel(typ ChannelType, ch channel.INotifyChannel) error {
	if typ == "" {
		return fmt.Errorf("channel type cannot be empty")
	}
	if ch == nil {
		return fmt.Errorf("channel cannot be nil")
	}
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("channel validation failed: %w", err)
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.channels[typ] = ch
	return nil
}

// GetChannel gets a notification channel by type
func (nm *NotifyManager) GetChannel(typ ChannelType) (channel.INotifyChannel, error) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	ch, exists := nm.channels[typ]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, typ)
	}
	return ch, nil
}

func (nm *NotifyManager) HasChannel(typ ChannelType) bool {
	_, err := nm.GetChannel(typ)
	return err == nil
}

// Templates 模板引擎
func (nm *NotifyManager) Templates() *template.TemplateEngine {
	return nm.engine
}

// SendEmail renders templateID with data and mails it to `to`
func (nm *NotifyManager) SendEmail(ctx context.Context, templateID, to string, data map[string]any) error {
	ch, err := nm.GetChannel(ChannelTypeEmail)
	if err != nil {
		return err
	}

	vars := make(map[string]any, len(data)+1)
	vars["appUrl"] = nm.appUrl
	for k, v := range data {
		vars[k] = v
	}

	rendered, err := nm.engine.Render(templateID, vars)
	if err != nil {
		return err
	}
	return ch.Send(ctx, &channel.Message{
		To:      []string{to},
		Subject: rendered.Subject,
		Body:    rendered.Body,
	})
}

// Mirror posts payload to the webhook channel
func (nm *NotifyManager) Mirror(ctx context.Context, payload any) error {
	ch, err := nm.GetChannel(ChannelTypeWebhook)
	if err != nil {
		return err
	}
	return ch.Send(ctx, &channel.Message{Payload: payload})
}

// ListChannels lists all registered channels
func (nm *NotifyManager) ListChannels() []ChannelType {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	types := make([]ChannelType, 0, len(nm.channels))
	for typ := range nm.channels {
		types = append(types, typ)
	}
	return types
}

// Close closes all channels
func (nm *NotifyManager) Close() error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	var errs []error
	for typ, ch := range nm.channels {
		if err := ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", typ, err))
		}
	}
	nm.channels = make(map[ChannelType]channel.INotifyChannel)
	return errors.Join(errs...)
}
