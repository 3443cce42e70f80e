package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the Redis-backed session loaded by the session
// middleware. Auth middleware and handlers read it back to resolve the
// logged-in vendor, hub or admin.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request session, or nil outside the
// session middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
