package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "first forwarded address", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, want: "10.0.0.1"},
		{name: "single forwarded address", headers: map[string]string{"X-Forwarded-For": " 10.0.0.3 "}, want: "10.0.0.3"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": "10.0.0.4"}, want: "10.0.0.4"},
		{name: "remote addr strips port", remote: "192.168.1.5:4321", want: "192.168.1.5"},
		{name: "ipv6 remote addr", remote: "[::1]:4321", want: "[::1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r))
		})
	}
}

func TestClientKind(t *testing.T) {
	assert.Equal(t, KindUnknown, ClientKind(""))
	assert.Equal(t, KindBot, ClientKind("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotKind string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotKind = GetClientKind(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "10.1.1.1")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "10.1.1.1", gotIP)
	assert.Equal(t, KindUnknown, gotKind)
}

func TestGetClientKindDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, KindUnknown, GetClientKind(context.Background()))
	assert.Empty(t, GetClientIP(context.Background()))
}
