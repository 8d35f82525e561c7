package api

import (
	"errors"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/auth"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Role     core.Role `json:"role"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
}

type LogoutRequest struct {
	Username string      `json:"username"`
	UserID   interface{} `json:"userId"`
}

// Login checks credentials and records the login. No session is issued.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "username and password are required"))
		return
	}

	user, err := a.queries.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		a.reqLog(r).Error("login lookup failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "login failed"))
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		WriteError(w, core.NewAppError(core.ErrUnauthorized, "invalid credentials"))
		return
	}
	if !user.IsActive {
		WriteError(w, core.NewAppError(core.ErrForbidden, "account is inactive, contact an administrator"))
		return
	}

	a.record(r, core.ActionLogin, core.EntityUser, user.ID, map[string]any{"username": user.Username}, user.Username)
	WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User: LoginUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.EmployeeName,
			Role:     core.Role(user.Role),
		},
	})
}

// Logout records a logout when the caller names the user.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Username != "" {
		a.record(r, core.ActionLogout, core.EntityUser, jsonEntityID(req.UserID),
			map[string]any{"username": req.Username}, req.Username)
	}
	WriteSuccess(w, nil)
}

// jsonEntityID turns a decoded JSON id into something audit can render
// without float formatting.
func jsonEntityID(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}
