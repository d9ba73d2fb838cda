package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MdAyanBadar/mini-auth-project/internal/auth"
	"github.com/MdAyanBadar/mini-auth-project/internal/httputil"
	"github.com/MdAyanBadar/mini-auth-project/internal/logging"
)

// Store is the persistence surface the ticket handlers need.
// Implemented by Repository.
type Store interface {
	List(ctx context.Context) ([]Ticket, error)
	Create(ctx context.Context, userID int64, title, description string) (*Ticket, error)
	Resolve(ctx context.Context, id int64) (*Ticket, error)
}

// Handler contains HTTP handlers for ticket endpoints. All routes sit
// behind the auth middleware, which puts the caller's identity in the
// request context.
type Handler struct {
	store  Store
	logger *logging.Logger
}

func NewHandler(store Store, logger *logging.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// CreateRequest represents the ticket creation request body
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListResponse represents the ticket list response
type ListResponse struct {
	Tickets []Ticket `json:"tickets"`
	Count   int      `json:"count"`
}

// TicketResponse represents a single-ticket response
type TicketResponse struct {
	Message string  `json:"message"`
	Ticket  *Ticket `json:"ticket"`
}

// List handles listing all tickets
// @Summary      List tickets
// @Description  List all tickets, newest first, with creator name and email.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ListResponse
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /tickets [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	tickets, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list tickets", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Internal server error while fetching tickets.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{
		Tickets: tickets,
		Count:   len(tickets),
	}, http.StatusOK)
}

// Create handles ticket creation
// @Summary      Create a ticket
// @Description  Create a new open ticket owned by the authenticated user.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Ticket fields"
// @Success      201 {object} TicketResponse
// @Failure      400 {object} map[string]string "Missing title"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /tickets [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Access denied. No token provided.", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid ticket request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		logger.Warn("ticket creation failed: title missing")
		httputil.RespondErrorWithCode(w, "Title is required.", httputil.CodeTitleRequired, http.StatusBadRequest)
		return
	}

	created, err := h.store.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		logger.Error("failed to create ticket", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Internal server error while creating ticket.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("ticket created", "ticket_id", created.ID, "user_id", userID)

	httputil.RespondJSON(w, TicketResponse{
		Message: "Ticket created successfully",
		Ticket:  created,
	}, http.StatusCreated)
}

// Resolve handles resolving a ticket
// @Summary      Resolve a ticket
// @Description  Mark an open ticket as resolved.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ticket ID"
// @Success      200 {object} TicketResponse
// @Failure      400 {object} map[string]string "Already resolved or bad id"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "Ticket not found"
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /tickets/{id}/resolve [post]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondErrorWithCode(w, "Invalid ticket id.", httputil.CodeInvalidTicketID, http.StatusBadRequest)
		return
	}

	resolved, err := h.store.Resolve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			logger.Warn("ticket resolution failed: not found", "ticket_id", id)
			httputil.RespondErrorWithCode(w, "Ticket not found.", httputil.CodeTicketNotFound, http.StatusNotFound)
		case errors.Is(err, ErrAlreadyResolved):
			logger.Warn("ticket resolution failed: already resolved", "ticket_id", id)
			httputil.RespondErrorWithCode(w, "Ticket is already resolved.", httputil.CodeTicketAlreadyResolved, http.StatusBadRequest)
		default:
			logger.Error("failed to resolve ticket", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Internal server error while resolving ticket.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("ticket resolved", "ticket_id", id)

	httputil.RespondJSON(w, TicketResponse{
		Message: "Ticket resolved successfully",
		Ticket:  resolved,
	}, http.StatusOK)
}
