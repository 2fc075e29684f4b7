package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/service"
)

type contextKey string

const (
	adminKey contextKey = "admin"
	tokenKey contextKey = "token"
)

// requireAuth resolves the bearer token before calling next. 401 on anything
// missing, unknown, or expired.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		admin, err := s.auth.Authenticate(r.Context(), token, time.Now())
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				respondError(w, http.StatusUnauthorized, "Invalid session")
				return
			}
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, admin)
		ctx = context.WithValue(ctx, tokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func adminFrom(r *http.Request) *model.Admin {
	admin, _ := r.Context().Value(adminKey).(*model.Admin)
	return admin
}

func tokenFrom(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}
