// Package metadata records who is calling: the client IP and a coarse client
// kind derived from the User-Agent.
package metadata

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Client kinds.
const (
	KindUnknown = "unknown"
	KindBot     = "bot"
	KindMobile  = "mobile"
	KindBrowser = "browser"
	KindAPI     = "api"
)

type contextKeyClientIP struct{}
type contextKeyClientKind struct{}

// ClientMetadata puts the client IP and kind on the request context. Apply it
// early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientMetadata(r.Context(), ClientIPFromRequest(r), ClientKind(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetClientKind retrieves the client kind from the context.
func GetClientKind(ctx context.Context) string {
	if kind, ok := ctx.Value(contextKeyClientKind{}).(string); ok {
		return kind
	}
	return KindUnknown
}

// WithClientMetadata injects client IP and kind into a context.
func WithClientMetadata(ctx context.Context, clientIP, kind string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	ctx = context.WithValue(ctx, contextKeyClientKind{}, kind)
	return ctx
}

// ClientKind classifies a User-Agent header. Agents without a recognizable
// browser (curl, SDKs) count as API clients.
func ClientKind(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return KindUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return KindBot
	case ua.Mobile():
		return KindMobile
	case !strings.HasPrefix(userAgent, "Mozilla/"):
		return KindAPI
	default:
		return KindBrowser
	}
}

// ClientIPFromRequest extracts the client IP, honoring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For lists client, proxy1, proxy2, ...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is ip:port, or [ip6]:port.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
