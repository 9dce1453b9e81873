// file: handler/session_handler.go

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"go-auth-api/common"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"go-auth-api/service"
	"net/http"
	"time"
)

const (
	refreshCookieName = "refresh_token"
	// The cookie is scoped to the auth path prefix so it never rides
	// on ordinary API calls.
	refreshCookiePath = "/auth"
)

// SessionHandler exposes the register/login/refresh/logout surface.
// All token lifecycle decisions live in the SessionService; the
// handler only parses requests, moves the refresh token in and out of
// its cookie, and maps errors onto HTTP statuses.
type SessionHandler struct {
	users           repository.IUserRepository
	auth            *service.AuthService
	sessions        *service.SessionService
	refreshLifetime time.Duration
}

func NewSessionHandler(users repository.IUserRepository, auth *service.AuthService, sessions *service.SessionService, refreshLifetime time.Duration) *SessionHandler {
	return &SessionHandler{
		users:           users,
		auth:            auth,
		sessions:        sessions,
		refreshLifetime: refreshLifetime,
	}
}

func (h *SessionHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshLifetime.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeTokenResponse(w http.ResponseWriter, status int, accessToken string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"token": accessToken})
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "New account"
// @Success      201 {object} map[string]string
// @Failure      400 {object} common.AppError
// @Router       /auth/register [post]
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	hashedPassword, err := h.auth.HashPassword(req.Password)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		return common.FromServiceError(err)
	}

	pair, err := h.sessions.IssuePair(r.Context(), user.ID)
	if err != nil {
		return common.FromServiceError(err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	h.setRefreshCookie(w, pair.RefreshToken)
	writeTokenResponse(w, http.StatusCreated, pair.AccessToken)
	return nil
}

// Login godoc
// @Summary      Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      200 {object} map[string]string
// @Failure      401 {object} common.AppError
// @Router       /auth/login [post]
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.FromServiceError(common.ErrUnauthorized)
		}
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	if !h.auth.CheckPasswordHash(req.Password, user.Password) {
		return common.FromServiceError(common.ErrUnauthorized)
	}

	pair, err := h.sessions.IssuePair(r.Context(), user.ID)
	if err != nil {
		return common.FromServiceError(err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	h.setRefreshCookie(w, pair.RefreshToken)
	writeTokenResponse(w, http.StatusOK, pair.AccessToken)
	return nil
}

// Refresh godoc
// @Summary      Rotate the refresh token and mint a new access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      401 {object} common.AppError
// @Router       /auth/refresh [post]
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return common.FromServiceError(common.ErrUnauthorized)
	}

	pair, err := h.sessions.Rotate(r.Context(), cookie.Value)
	if err != nil {
		return common.FromServiceError(err)
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeTokenResponse(w, http.StatusOK, pair.AccessToken)
	return nil
}

// Logout godoc
// @Summary      Revoke the presented refresh token
// @Description  Always succeeds; revocation is best-effort and idempotent.
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /auth/logout [post]
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		h.sessions.Revoke(r.Context(), cookie.Value)
	}

	clearRefreshCookie(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	return nil
}

// LogoutAll godoc
// @Summary      Revoke every refresh token of the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      401 {object} common.AppError
// @Router       /auth/logout-all [post]
func (h *SessionHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.FromServiceError(common.ErrUnauthorized)
	}

	if err := h.sessions.RevokeAllForUser(r.Context(), userID); err != nil {
		// The client-visible flow still succeeds; the next sweep or
		// logout retries the cleanup implicitly.
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Logout-all revocation failed")
	}

	clearRefreshCookie(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out from all sessions"})
	return nil
}
