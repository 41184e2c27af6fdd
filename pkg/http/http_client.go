package http

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/11/6 20:39
 * @file: http_client.go
 * @description: http client
 */

type ClientConfig struct {
	Timeout    time.Duration
	RetryCount int
	Headers    map[string]string
}

// Client 出站 HTTP 客户端
type Client struct {
	client *resty.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("User-Agent", "suitx")
	if len(cfg.Headers) > 0 {
		c.SetHeaders(cfg.Headers)
	}
	return &Client{client: c}
}

// PostJSON 发送 JSON 请求，非 2xx 视为错误
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body any) (*resty.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return resp, fmt.Errorf("post %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return resp, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp, nil
}
