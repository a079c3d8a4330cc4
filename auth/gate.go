package auth

import (
	"context"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the session placed by WithSession, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// ContextGate resolves the caller from the session in the request context.
type ContextGate struct{}

func (ContextGate) CurrentUserID(ctx context.Context) (string, error) {
	session := SessionFromContext(ctx)
	if session == nil {
		return "", quiz.Unauthenticated("authentication required")
	}
	return session.UserID, nil
}

func (ContextGate) CurrentRole(ctx context.Context) (string, error) {
	session := SessionFromContext(ctx)
	if session == nil {
		return "", quiz.Unauthenticated("authentication required")
	}
	return session.Role, nil
}
