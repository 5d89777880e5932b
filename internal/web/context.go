package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/filmrecipes/internal/core"
)

// withRequestMetadata adds IP and User-Agent to ctx for the import audit.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
