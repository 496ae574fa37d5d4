package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/easyfin/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for export logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r.RemoteAddr))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// clientIP strips the port from a RemoteAddr. TrustedRealIP may already
// have replaced it with a bare IP.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
