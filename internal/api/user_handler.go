package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/auth"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

var (
	employeeNameRe = regexp.MustCompile(`^[a-zA-Z\s]{5,}$`)
	mobileRe       = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minUsernameLength = 5

type CreateUserRequest struct {
	EmployeeName string `json:"employeeName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	PerformedBy  string `json:"performedBy"`
}

// UpdateUserRequest fields left null are not changed.
type UpdateUserRequest struct {
	EmployeeName *string `json:"employeeName"`
	MobileNumber *string `json:"mobileNumber"`
	Email        *string `json:"email"`
	Username     *string `json:"username"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	IsActive     *bool   `json:"isActive"`
	PerformedBy  string  `json:"performedBy"`
}

func validateEmployeeName(s string) *core.AppError {
	if !employeeNameRe.MatchString(s) {
		return core.NewAppError(core.ErrBadRequest, "name must be at least 5 letters")
	}
	return nil
}

func validateUsername(s string) *core.AppError {
	if utf8.RuneCountInString(s) < minUsernameLength {
		return core.NewAppError(core.ErrBadRequest, "username must be at least 5 characters")
	}
	return nil
}

func validateMobile(s string) *core.AppError {
	if !mobileRe.MatchString(s) {
		return core.NewAppError(core.ErrBadRequest, "mobile number must be 10 digits")
	}
	return nil
}

func validateEmail(s string) *core.AppError {
	if !emailRe.MatchString(s) {
		return core.NewAppError(core.ErrBadRequest, "invalid email format")
	}
	return nil
}

func validateRole(s string) *core.AppError {
	if !core.Role(s).Valid() {
		return core.NewAppError(core.ErrBadRequest, "role must be ADMIN or SPC")
	}
	return nil
}

func (req CreateUserRequest) validate() *core.AppError {
	if req.EmployeeName == "" || req.Username == "" || req.Password == "" ||
		req.Role == "" || req.MobileNumber == "" || req.Email == "" {
		return core.NewAppError(core.ErrBadRequest, "all fields are mandatory")
	}
	for _, err := range []*core.AppError{
		validateEmployeeName(req.EmployeeName),
		validateUsername(req.Username),
		validateMobile(req.MobileNumber),
		validateEmail(req.Email),
		validateRole(req.Role),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (req UpdateUserRequest) validate() *core.AppError {
	checks := []struct {
		v  *string
		fn func(string) *core.AppError
	}{
		{req.EmployeeName, validateEmployeeName},
		{req.Username, validateUsername},
		{req.MobileNumber, validateMobile},
		{req.Email, validateEmail},
		{req.Role, validateRole},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := c.fn(*c.v); err != nil {
			return err
		}
	}
	return nil
}

// ListUsers lists accounts, newest first.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.queries.ListUsers(r.Context())
	if err != nil {
		a.reqLog(r).Error("list users failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch users"))
		return
	}
	resp := make([]core.User, len(users))
	for i, u := range users {
		resp[i] = u.ToCore()
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CreateUser creates an account with a bcrypt-hashed password.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if appErr := req.validate(); appErr != nil {
		WriteError(w, appErr)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.reqLog(r).Error("hash password failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrBadRequest, "password cannot be used"))
		return
	}

	user, err := a.queries.CreateUser(r.Context(), store.CreateUserParams{
		EmployeeName: req.EmployeeName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		UpdatedBy:    actorOr(req.PerformedBy),
	})
	if store.IsUniqueViolation(err) {
		WriteError(w, core.NewAppError(core.ErrConflictExists, "username or email already exists"))
		return
	}
	if err != nil {
		a.reqLog(r).Error("create user failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to create user"))
		return
	}

	a.record(r, core.ActionCreate, core.EntityUser, user.ID,
		map[string]any{"username": user.Username, "role": user.Role}, req.PerformedBy)
	WriteJSON(w, http.StatusCreated, user.ToCore())
}

// UpdateUser changes the fields present in the request. The default admin
// account can never be deactivated.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, appErr := pathID(r, "id")
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	var req UpdateUserRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if appErr := req.validate(); appErr != nil {
		WriteError(w, appErr)
		return
	}

	existing, err := a.queries.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
		return
	}
	if err != nil {
		a.reqLog(r).Error("get user failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to update user"))
		return
	}
	if req.IsActive != nil && !*req.IsActive && isDefaultAdmin(existing.Username, req.Username) {
		WriteError(w, core.NewAppError(core.ErrForbidden, "the default admin user cannot be deactivated"))
		return
	}

	params := store.UpdateUserParams{
		ID:           id,
		EmployeeName: optText(req.EmployeeName),
		MobileNumber: optText(req.MobileNumber),
		Email:        optText(req.Email),
		Username:     optText(req.Username),
		Role:         optText(req.Role),
		UpdatedBy:    actorOr(req.PerformedBy),
	}
	if req.IsActive != nil {
		params.IsActive = pgtype.Bool{Bool: *req.IsActive, Valid: true}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			WriteError(w, core.NewAppError(core.ErrBadRequest, "password cannot be used"))
			return
		}
		params.PasswordHash = pgtype.Text{String: hash, Valid: true}
	}

	user, err := a.queries.UpdateUser(ctx, params)
	switch {
	case store.IsUniqueViolation(err):
		WriteError(w, core.NewAppError(core.ErrConflictExists, "username or email already exists"))
		return
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
		return
	case err != nil:
		a.reqLog(r).Error("update user failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to update user"))
		return
	}

	a.record(r, core.ActionUpdate, core.EntityUser, user.ID, map[string]any{"username": user.Username}, req.PerformedBy)
	WriteJSON(w, http.StatusOK, user.ToCore())
}

// DeleteUser is disabled; accounts are deactivated instead.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	WriteError(w, core.NewAppError(core.ErrMethodNotAllowed, "hard deletion is disabled, deactivate the user instead"))
}

func isDefaultAdmin(current string, renamed *string) bool {
	if strings.EqualFold(current, core.DefaultAdminUsername) {
		return true
	}
	return renamed != nil && strings.EqualFold(*renamed, core.DefaultAdminUsername)
}

func optText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// actorOr returns the named actor, or the default actor for updated_by columns.
func actorOr(actor string) string {
	if actor == "" {
		return audit.DefaultActor
	}
	return actor
}
