package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/qugu2427/alienpls-api/pkg/ctxlogger"
	"github.com/qugu2427/alienpls-api/pkg/rest"
	"github.com/qugu2427/alienpls-api/pkg/twitchauth"
)

func (c *controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// authMw resolves the bearer credential to a user identity before the
// handler runs. Identity provider failures pass through with the status the
// provider returned.
func (c *controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing authorization header"})
			return
		}

		user, err := c.identity.GetUser(r.Context(), authorization)
		if err != nil {
			var statusErr *twitchauth.StatusError
			if errors.As(err, &statusErr) {
				rest.WriteJSON(w, statusErr.Status, rest.Envelope{"error": statusErr.Error()})
				return
			}

			c.logger.ErrorContext(r.Context(), "failed to resolve identity", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "unknown error"})
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
