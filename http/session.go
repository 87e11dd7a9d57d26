package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/logger"
)

const sessionCookieName = "grievance_session"

type sessionCtxKey struct{}

// sessionMiddleware attaches the caller's portal session to the request.
// When the cookie is missing or unknown, routes that change state register a
// new session and set the cookie; read-only routes get a detached session
// that is never stored.
func (httpserver *HttpServer) sessionMiddleware(register bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := httpserver.lookupSession(r)
			switch {
			case sess != nil:
			case register:
				sess = httpserver.sessions.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sess.ID.String(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			default:
				sess = httpserver.sessions.Detached()
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			ctx = logger.WithLogger(ctx, httplog.LogEntry(r.Context()))
			ctx = logger.WithSessionID(ctx, sess.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sweepSessions drops sessions idle for longer than sessionIdle until ctx is
// cancelled.
func (httpserver *HttpServer) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(max(httpserver.sessionIdle/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := httpserver.sessions.Sweep(httpserver.sessionIdle); n > 0 {
				httpserver.log.Info("evicted idle sessions", "count", n, "remaining", httpserver.sessions.Len())
			}
		}
	}
}

func (httpserver *HttpServer) lookupSession(r *http.Request) *grievance.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	sess, ok := httpserver.sessions.Get(id)
	if !ok {
		return nil
	}
	return sess
}

func sessionFromContext(ctx context.Context) *grievance.Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*grievance.Session)
	return sess
}
