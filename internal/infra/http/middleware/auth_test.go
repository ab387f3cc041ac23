package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/auth"
)

type stubUserLoader struct {
	user *entity.User
	err  error
}

func (s *stubUserLoader) FindByID(_ context.Context, _ string) (*entity.User, error) {
	return s.user, s.err
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PrincipalFrom(r.Context()))
	})
}

func TestAuthenticateMissingCookie(t *testing.T) {
	tokens := auth.NewJWTManager("segredo-de-teste")
	handler := Authenticate(tokens, &stubUserLoader{})(echoPrincipal())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/leads", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Access token required", response["message"])
}

func TestAuthenticateExpiredToken(t *testing.T) {
	tokens := auth.NewJWTManager("segredo-de-teste")
	token, _ := tokens.Issue("user-123", -time.Minute)

	handler := Authenticate(tokens, &stubUserLoader{})(echoPrincipal())

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Token expired", response["message"])
}

func TestAuthenticateTamperedToken(t *testing.T) {
	token, _ := auth.NewJWTManager("outro-segredo").Issue("user-123", time.Hour)

	handler := Authenticate(auth.NewJWTManager("segredo-de-teste"), &stubUserLoader{})(echoPrincipal())

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Invalid token", response["message"])
}

func TestAuthenticateDeletedUser(t *testing.T) {
	tokens := auth.NewJWTManager("segredo-de-teste")
	token, _ := tokens.Issue("user-123", time.Hour)

	handler := Authenticate(tokens, &stubUserLoader{err: entity.ErrUserNotFound})(echoPrincipal())

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	tokens := auth.NewJWTManager("segredo-de-teste")
	token, _ := tokens.Issue("user-123", time.Hour)

	loader := &stubUserLoader{user: &entity.User{
		ID:        "user-123",
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
	}}

	handler := Authenticate(tokens, loader)(echoPrincipal())

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var principal Principal
	json.NewDecoder(w.Body).Decode(&principal)
	assert.Equal(t, "user-123", principal.ID)
	assert.Equal(t, "test@example.com", principal.Email)
}
