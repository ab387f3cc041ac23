package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/auth"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
)

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func newAuthHandler(users *MockUserRepository) *AuthHandler {
	return NewAuthHandler(users, auth.NewJWTManager("segredo-de-teste"), auth.BcryptHasher{})
}

func jsonBody(body string) *strings.Reader {
	return strings.NewReader(body)
}

func sessionCookie(result *http.Response) *http.Cookie {
	for _, cookie := range result.Cookies() {
		if cookie.Name == middleware.TokenCookieName {
			return cookie
		}
	}
	return nil
}

// TestRegisterCreatesUserAndSession
func TestRegisterCreatesUserAndSession(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := `{"email":"Test@Example.com","password":"password123","first_name":"Test","last_name":"User"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(body))
	newAuthHandler(mockUsers).Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(w.Result())
	assert.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	var user entity.User
	json.NewDecoder(w.Body).Decode(&user)
	// Email normalizado e hash nunca serializado.
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

// TestRegisterValidation
func TestRegisterValidation(t *testing.T) {
	mockUsers := new(MockUserRepository)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(`{"email":"no","password":"123"}`))
	newAuthHandler(mockUsers).Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUsers.AssertNotCalled(t, "Create")
}

// TestRegisterDuplicateEmail
func TestRegisterDuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(entity.ErrUserAlreadyExists)

	body := `{"email":"test@example.com","password":"password123","first_name":"Test","last_name":"User"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", jsonBody(body))
	newAuthHandler(mockUsers).Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestLoginInvalidCredentials - usuário inexistente e senha errada dão a
// mesma resposta
func TestLoginInvalidCredentials(t *testing.T) {
	hasher := auth.BcryptHasher{}
	hash, _ := hasher.Hash("senha-certa")

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, entity.ErrUserNotFound)
	mockUsers.On("FindByEmail", mock.Anything, "test@example.com").Return(&entity.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: hash,
	}, nil)

	handler := newAuthHandler(mockUsers)

	for _, body := range []string{
		`{"email":"ghost@example.com","password":"qualquer"}`,
		`{"email":"test@example.com","password":"senha-errada"}`,
	} {
		w := httptest.NewRecorder()
		handler.Login(w, httptest.NewRequest("POST", "/api/auth/login", jsonBody(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]string
		json.NewDecoder(w.Body).Decode(&response)
		assert.Equal(t, "Invalid credentials", response["message"])
	}
}

// TestLoginSuccess
func TestLoginSuccess(t *testing.T) {
	hasher := auth.BcryptHasher{}
	hash, _ := hasher.Hash("password123")

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByEmail", mock.Anything, "test@example.com").Return(&entity.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: hash,
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(`{"email":"Test@example.com","password":"password123"}`))
	newAuthHandler(mockUsers).Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(w.Result()))
}

// TestLogoutClearsCookie
func TestLogoutClearsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	newAuthHandler(new(MockUserRepository)).Logout(w, httptest.NewRequest("POST", "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w.Result())
	assert.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}
