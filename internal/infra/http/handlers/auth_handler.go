package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/auth"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	Users  usecase.UserRepositoryInterface
	Tokens auth.TokenManager
	Hasher auth.PasswordHasher
}

func NewAuthHandler(users usecase.UserRepositoryInterface, tokens auth.TokenManager, hasher auth.PasswordHasher) *AuthHandler {
	return &AuthHandler{
		Users:  users,
		Tokens: tokens,
		Hasher: hasher,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register (POST /api/auth/register)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if errs := validateRegister(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Validation errors",
			"errors":  errs,
		})
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		internalError(w, "Hash password error", err)
		return
	}

	user := entity.NewUser(strings.ToLower(req.Email), hash, req.FirstName, req.LastName)

	if err := h.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, entity.ErrUserAlreadyExists) {
			writeMessage(w, http.StatusConflict, "User with this email already exists")
			return
		}
		internalError(w, "Register error", err)
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login (POST /api/auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), strings.ToLower(req.Email))
	if errors.Is(err, entity.ErrUserNotFound) {
		// Mesma resposta para email e senha errados: não vaza existência.
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		internalError(w, "Login error", err)
		return
	}

	if err := h.Hasher.Compare(user.PasswordHash, req.Password); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout (POST /api/auth/logout)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me (GET /api/auth/me)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.PrincipalFrom(r.Context()))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID string) bool {
	token, err := h.Tokens.Issue(userID, sessionTTL)
	if err != nil {
		internalError(w, "Issue token error", err)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func validateRegister(req registerRequest) []usecase.ValidationError {
	var errs []usecase.ValidationError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, usecase.ValidationError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, usecase.ValidationError{Field: "email", Message: "is invalid"})
	}

	if len(req.Password) < 6 {
		errs = append(errs, usecase.ValidationError{Field: "password", Message: "must have at least 6 characters"})
	}

	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, usecase.ValidationError{Field: "first_name", Message: "is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, usecase.ValidationError{Field: "last_name", Message: "is required"})
	}

	return errs
}
