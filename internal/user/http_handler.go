package user

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"bookstore/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,password_strength"`
}

// newUser trims the identity fields. Staff accounts are never created through
// the public API.
func (req registerRequest) newUser() NewUser {
	return NewUser{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
}

// RegisterUser handles POST /users/register
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration request"
// @Success 201 {object} User
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /users/register [post]
func (h *HTTPHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	nu := req.newUser()
	req.Username, req.Email = nu.Username, nu.Email

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.service.Register(r.Context(), nu)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.Info("user registered", zap.String("user.id", u.ID), zap.String("username", u.Username))
	httpx.JSONSuccessCreated(w, u)
}

// GetCurrentUser handles GET /me
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} User
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me [get]
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetByID(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, u)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Username already exists", nil)
	case errors.Is(err, ErrNotFound):
		// The token outlived its user.
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credentials", nil)
	default:
		h.logger.Error("user request failed", zap.String("request.id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.InternalError(w, r)
	}
}
