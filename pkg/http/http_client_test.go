package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	var gotBody, gotHeader string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotHeader = r.Header.Get("X-Token")
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{})
	_, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"X-Token": "t"}, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"b"}`, gotBody)
	assert.Equal(t, "t", gotHeader)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{})
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]string{})
	assert.Error(t, err)

	_, err = c.Get(context.Background(), srv.URL, nil)
	assert.Error(t, err)
}

func TestHttp_SetDefaults(t *testing.T) {
	h := &Http{Port: 9000}
	h.SetDefaults()
	assert.Equal(t, "0.0.0.0", h.Host)
	assert.Equal(t, 9000, h.Port)
	assert.Equal(t, "/api/v1", h.InternalContextPath)
	assert.Equal(t, "0.0.0.0:9000", h.Addr())
	assert.Equal(t, time.Duration(120), h.Auth.AccessExpire)
}
