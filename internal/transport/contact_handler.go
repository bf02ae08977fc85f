package transport

import (
	"net/http"

	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContactRequest is a message from the contact form
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Subject     string `json:"subject" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

// ContactHandler serves the contact form
type ContactHandler struct {
	contactService service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

func (h *ContactHandler) RegisterRoutes(r chi.Router, guards Guards) {
	guards.rateLimited(r).Post("/contact", h.Submit)
	r.With(guards.Auth, guards.Admin).Get("/api/contacts", h.List)
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	contact, err := h.contactService.Submit(r.Context(), req.Name, req.Subject, req.Description)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to submit contact")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list contacts")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, contacts)
}
