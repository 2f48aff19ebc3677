package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/models"
)

// AuthService serves the registration and login endpoints.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

// Register handles POST /api/auth/register.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeErr(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.logger.Error("Registration failed", "email", models.NormalizeEmail(req.Email), "error", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  userInfo{ID: user.ID, Email: user.Email},
	})
}

// Login handles POST /api/auth/login.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Same message for unknown email and wrong password, so failed
		// logins never reveal whether an account exists.
		s.logger.Warn("Login failed", "email", models.NormalizeEmail(req.Email))
		writeErr(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userInfo{ID: user.ID, Email: user.Email},
	})
}
