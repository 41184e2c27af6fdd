package auth

import (
	"encoding/base64"
	"net/smtp"
)

// encodeBasicAuth encodes basic auth credentials to base64
func (a *BasicAuth) encodeBasicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
}

// SMTPAuth 同一组凭据用于 SMTP PLAIN 认证
func (a *BasicAuth) SMTPAuth(host string) smtp.Auth {
	return smtp.PlainAuth("", a.Username, a.Password, host)
}
