package channel

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/pkg/notify/auth"
)

// EmailConfig SMTP 配置
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	FromName string
	UseTLS   bool
	Timeout  time.Duration
}

// EmailChannel implements email notification channel over SMTP
type EmailChannel struct {
	cfg          EmailConfig
	authProvider auth.IAuthProvider
	dial         func(ctx context.Context, network, addr string) (net.Conn, error)
	now          func() time.Time
}

// NewEmailChannel creates a new email notification channel
func NewEmailChannel(cfg EmailConfig) *EmailChannel {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	d := &net.Dialer{Timeout: cfg.Timeout}
	return &EmailChannel{
		cfg:  cfg,
		dial: d.DialContext,
		now:  time.Now,
	}
}

// SetAuth sets authentication provider, only basic auth is supported
func (c *EmailChannel) SetAuth(provider auth.IAuthProvider) error {
	if provider == nil {
		return nil
	}
	if provider.GetAuthType() != auth.AuthTypeBasic {
		return fmt.Errorf("email channel only supports basic auth")
	}
	c.authProvider = provider
	return provider.Validate()
}

// GetAuth gets the authentication provider
func (c *EmailChannel) GetAuth() auth.IAuthProvider {
	return c.authProvider
}

// Send sends an HTML email to msg.To
func (c *EmailChannel) Send(ctx context.Context, msg *Message) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if msg == nil || len(msg.To) == 0 {
		return errors.New("email recipient is required")
	}
	for _, to := range msg.To {
		if strings.ContainsAny(to, "\r\n") {
			return fmt.Errorf("invalid recipient address %q", to)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := c.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if c.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if basic, ok := c.authProvider.(*auth.BasicAuth); ok {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(basic.SMTPAuth(c.cfg.Host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(c.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(c.buildMessage(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}
	return client.Quit()
}

func (c *EmailChannel) buildMessage(msg *Message) []byte {
	from := c.cfg.From
	if c.cfg.FromName != "" {
		from = mime.QEncoding.Encode("utf-8", c.cfg.FromName) + " <" + c.cfg.From + ">"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + c.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// Validate validates the configuration
func (c *EmailChannel) Validate() error {
	if c.cfg.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.cfg.Port <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.cfg.From == "" {
		return fmt.Errorf("from email is required")
	}
	if c.authProvider != nil {
		return c.authProvider.Validate()
	}
	return nil
}

// Close closes the connection
func (c *EmailChannel) Close() error {
	return nil
}
