package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-backoffice-session/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyAccount stores the *users.Account the bearer token belongs to
const ContextKeyAccount ContextKey = "account"

// RequireAuth validates the bearer JWT and loads its account.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Not authenticated")
				return
			}

			claims, err := s.tokens.Verify(raw)
			if err != nil {
				s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				writeUnauthorized(w, detailCouldNotVerify)
				return
			}

			account, err := s.accounts.GetByEmail(claims.Subject)
			if err != nil {
				writeUnauthorized(w, detailCouldNotVerify)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAccount, account)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole must run after RequireAuth.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			account, ok := accountFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, detailCouldNotVerify)
				return
			}
			if !account.HasRole(roles...) {
				writeDetail(w, http.StatusForbidden, detailRoleNotAllowed)
				return
			}
			next(w, r)
		}
	}
}

func accountFromContext(ctx context.Context) (*users.Account, bool) {
	account, ok := ctx.Value(ContextKeyAccount).(*users.Account)
	return account, ok && account != nil
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}
