package controllers

import (
	"errors"
	"net/http"
	"strings"

	"study_server_go/auth"
	"study_server_go/data"
	"study_server_go/models"
)

// Register creates an account and returns a token for it.
// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "email, password and displayName are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "email is not valid")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		respondError(w, http.StatusBadRequest, "password is too short")
		return
	}

	existing, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to look up user by email")
		respondError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "a user with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to hash password")
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.User{Email: req.Email, DisplayName: req.DisplayName, PasswordHash: hash}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			respondError(w, http.StatusConflict, "a user with this email already exists")
			return
		}
		h.log.Error().Err(err).Msg("failed to create user")
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login exchanges an email and password for a token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to look up user by email")
		respondError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Me returns the authenticated user.
// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(r.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to get user")
		respondError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user.PublicInfo())
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, _, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to generate token")
		respondError(w, http.StatusInternalServerError, "failed to generate access token")
		return
	}
	respondJSON(w, status, models.AuthResponse{Token: token, User: user.PublicInfo()})
}
