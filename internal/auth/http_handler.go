package auth

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

type loginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=72"`
}

// Login handles POST /auth/login
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} Token
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrUnauthorized) {
		h.logger.Warn("login rejected",
			zap.String("username", req.Username),
			zap.String("request.id", httpx.RequestIDFrom(r)))
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "login failed", err)
		return
	}
	httpx.JSONSuccess(w, token)
}

// Logout handles POST /auth/logout
// @Summary Revoke the current access token
// @Tags auth
// @Security Bearer
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.service.Logout(r.Context(), httpx.ClaimsFrom(r))
	if errors.Is(err, ErrUnauthorized) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credentials", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "logout failed", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request.id", httpx.RequestIDFrom(r)),
		zap.String("user.id", httpx.UserIDFrom(r)),
		zap.Error(err))
	httpx.InternalError(w, r)
}
