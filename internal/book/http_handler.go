package book

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"bookstore/internal/httpx"
)

// HTTPHandler serves the /books endpoints.
type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewHTTPHandler creates a book HTTP handler.
func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// List handles GET /books
// @Summary List books
// @Description List all books, optionally filtered by exact price, searched by name or author and ordered
// @Tags books
// @Produce json
// @Param price query number false "Exact price"
// @Param search query string false "Case-insensitive search in name and author_name"
// @Param ordering query string false "price, -price, author_name or -author_name; comma separated"
// @Success 200 {array} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters",
			[]httpx.ErrorDetail{{Field: "price", Message: "price must be a number"}})
		return
	}

	books, err := h.service.List(r.Context(), actorFrom(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, books)
}

// Get handles GET /books/{id}
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Create handles POST /books
// @Summary Create book
// @Description Create a book owned by the authenticated user; any owner in the body is ignored
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if !actor.Authenticated() {
		h.writeError(w, r, ErrNotAuthenticated)
		return
	}

	var in Input
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	in.normalize()
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/books/"+strconv.FormatInt(b.ID, 10))
	httpx.JSONSuccessCreated(w, b)
}

// Update handles PUT /books/{id}
// @Summary Replace book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor := actorFrom(r)
	if !actor.Authenticated() {
		h.writeError(w, r, ErrNotAuthenticated)
		return
	}

	var in Input
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	in.normalize()
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Update(r.Context(), actor, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Patch handles PATCH /books/{id}
// @Summary Partially update book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body Patch true "Fields to change"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [patch]
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor := actorFrom(r)
	if !actor.Authenticated() {
		h.writeError(w, r, ErrNotAuthenticated)
		return
	}

	var p Patch
	if !httpx.DecodeJSON(w, r, &p) {
		return
	}
	p.normalize()
	if details := httpx.ValidateStruct(p); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Patch(r.Context(), actor, id, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Delete handles DELETE /books/{id}
// @Summary Delete book
// @Tags books
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 204 "No Content"
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrNotAuthenticated):
		httpx.JSONError(w, r, http.StatusForbidden, "NOT_AUTHENTICATED", "Authentication credentials were not provided", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", nil)
	default:
		h.logger.Error("book request failed",
			zap.String("request.id", httpx.RequestIDFrom(r)),
			zap.String("method", r.Method),
			zap.Error(err),
		)
		httpx.InternalError(w, r)
	}
}

func actorFrom(r *http.Request) Actor {
	return Actor{UserID: httpx.UserIDFrom(r), Staff: httpx.StaffFrom(r)}
}

// pathID parses the {id} path value. Anything that is not a positive integer
// cannot name a book and is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return 0, false
	}
	return id, true
}
