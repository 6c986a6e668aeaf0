// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/notify"
	"github.com/danielhkuo/votedesk/store"
)

const credentialsSubject = "Your voting account"

type UserHandler struct {
	users    *store.Users
	tokens   *auth.TokenIssuer
	notifier notify.Notifier
	log      *zap.Logger
}

func NewUserHandler(users *store.Users, tokens *auth.TokenIssuer, notifier notify.Notifier, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, notifier: notifier, log: log}
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user, err := h.users.Create(r.Context(), store.NewUser{
		Identity:     req.Identity,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, store.ErrDuplicateIdentity) {
		middleware.ErrorResponse(w, http.StatusConflict, "User with this ID already exists")
		return
	}
	if err != nil {
		h.log.Error("failed to create user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", user.ID))

	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{
		Message: "User registered successfully",
		ID:      user.ID,
	})
}

// CreateUser handles POST /create_user. Without a password, a one-time
// password is generated and mailed to the new user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request, admin models.User) {
	var req models.CreateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	password := req.Password
	generated := password == ""
	if generated {
		var err error
		password, err = auth.GeneratePassword()
		if err != nil {
			h.log.Error("failed to generate password", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := h.users.Create(r.Context(), store.NewUser{
		Identity:     req.Identity,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
	if errors.Is(err, store.ErrDuplicateIdentity) {
		middleware.ErrorResponse(w, http.StatusConflict, "User with this ID already exists")
		return
	}
	if err != nil {
		h.log.Error("failed to create user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.Int64("created_by", admin.ID),
		zap.Bool("is_admin", user.IsAdmin),
	)

	resp := models.MessageResponse{Message: "User created successfully", ID: user.ID}

	if generated {
		body := fmt.Sprintf("Hello %s,\n\nAn account was created for you.\n\nID: %s\nPassword: %s\n\nPlease sign in and keep this password private.\n",
			user.DisplayName(), user.Identity, password)
		if err := h.notifier.Notify(r.Context(), user.Email, credentialsSubject, body); err != nil {
			h.log.Warn("failed to send credentials", zap.Int64("user_id", user.ID), zap.Error(err))
			resp.Warning = "User created but the credentials email could not be sent"
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	identity := req.LoginIdentity()
	if identity == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ID and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), identity, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.log.Error("failed to authenticate", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: expiresAt,
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ models.User) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request, _ models.User) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.users.ByID(r.Context(), id)
	if errors.Is(err, store.ErrUserNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("failed to get user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	// Only another admin can demote an admin, so at least one always remains
	if id == admin.ID && !req.IsAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You cannot remove your own admin privileges")
		return
	}

	err := h.users.Update(r.Context(), id, store.Profile{
		Identity:  req.Identity,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	})
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, store.ErrDuplicateIdentity):
		middleware.ErrorResponse(w, http.StatusConflict, "User with this ID already exists")
		return
	case err != nil:
		h.log.Error("failed to update user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("user updated", zap.Int64("user_id", id), zap.Int64("updated_by", admin.ID))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "User updated successfully"})
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	if id == admin.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	err := h.users.Delete(r.Context(), id)
	if errors.Is(err, store.ErrUserNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("failed to delete user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("user deleted", zap.Int64("user_id", id), zap.Int64("deleted_by", admin.ID))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "User deleted successfully"})
}
