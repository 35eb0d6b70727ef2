package domain

import "context"

// Session identifies the logged-in user for one request. Token is forwarded to the
// election backend unchanged.
type Session struct {
	UserID string
	Token  string
}

type sessionKey struct{}

// ContextWithSession stores s in ctx
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by ContextWithSession, or nil
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Registration is the sign-up form
type Registration struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password,omitempty"`
}
