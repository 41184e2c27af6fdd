package channel

import (
	"context"

	"github.com/go-arcade/suitx/internal/pkg/notify/auth"
)

// Message 渠道无关的消息体
type Message struct {
	To      []string
	Subject string
	Body    string
	// Payload 结构化内容，webhook 渠道优先发送
	Payload any
}

// INotifyChannel defines the interface for notification channels
type INotifyChannel interface {
	// SetAuth sets the authentication provider
	SetAuth(provider auth.IAuthProvider) error
	// GetAuth gets the authentication provider
	GetAuth() auth.IAuthProvider
	// Send sends a message
	Send(ctx context.Context, msg *Message) error
	// Validate validates the channel configuration
	Validate() error
	// Close closes the channel connection
	Close() error
}
