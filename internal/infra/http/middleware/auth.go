package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/auth"
)

const TokenCookieName = "token"

type contextKey string

const principalKey contextKey = "principal"

// Principal é o chamador autenticado anexado ao contexto da requisição.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserLoader confirma que o dono do token ainda existe.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Authenticate resolve o cookie de sessão em um Principal ou corta a
// requisição com 401. Nunca 5xx: credencial ruim é sempre problema do
// chamador.
func Authenticate(tokens auth.TokenManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil {
				unauthorized(w, "Access token required")
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					unauthorized(w, "Token expired")
				} else {
					unauthorized(w, "Invalid token")
				}
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, "User not found")
				return
			}

			principal := &Principal{
				ID:        user.ID,
				Email:     user.Email,
				FirstName: user.FirstName,
				LastName:  user.LastName,
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFrom só devolve nil se o handler foi montado fora da cadeia
// de Authenticate.
func PrincipalFrom(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalKey).(*Principal)
	return principal
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
