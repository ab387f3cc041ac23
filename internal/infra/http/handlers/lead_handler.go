package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/query"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

type LeadHandler struct {
	CreateLeadUC *usecase.CreateLeadUseCase
	UpdateLeadUC *usecase.UpdateLeadUseCase
	LeadRepo     usecase.LeadRepositoryInterface
	Events       usecase.LeadEventPublisher
}

func NewLeadHandler(
	createUC *usecase.CreateLeadUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	leadRepo usecase.LeadRepositoryInterface,
	events usecase.LeadEventPublisher,
) *LeadHandler {
	return &LeadHandler{
		CreateLeadUC: createUC,
		UpdateLeadUC: updateUC,
		LeadRepo:     leadRepo,
		Events:       events,
	}
}

// List (GET /api/leads?page&limit&<campo>[_contains|_gt|_lt]=valor)
// Filtro desconhecido não é 400: o compilador ignora e segue.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	params := r.URL.Query()

	// page/limit também passam pelo compilador de filtros, mas não estão
	// no registry, então são inertes lá.
	page := query.Plan(params)

	result, err := h.LeadRepo.List(r.Context(), principal.ID, params, page)
	if err != nil {
		internalError(w, "Get leads error", err)
		return
	}

	middleware.RecordLeadListQuery()
	writeJSON(w, http.StatusOK, result)
}

// Get (GET /api/leads/{id})
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.LeadRepo.FindByID(r.Context(), id, principal.ID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		writeMessage(w, http.StatusNotFound, "Lead not found")
		return
	}
	if err != nil {
		internalError(w, "Get lead error", err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// Create (POST /api/leads)
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.CreateLeadUC.Execute(r.Context(), ownerFrom(principal), input)
	if err != nil {
		var validationErrs usecase.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message": "Validation errors",
				"errors":  validationErrs,
			})
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			writeMessage(w, http.StatusConflict, "Lead with this email already exists")
		default:
			internalError(w, "Create lead error", err)
		}
		return
	}

	middleware.RecordLeadCreated(lead.Source)
	writeJSON(w, http.StatusCreated, lead)
}

// Update (PUT /api/leads/{id}, patch parcial)
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.UpdateLeadUC.Execute(r.Context(), ownerFrom(principal), id, patch)
	if err != nil {
		var validationErrs usecase.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message": "Validation errors",
				"errors":  validationErrs,
			})
		case errors.Is(err, query.ErrNoUpdatableFields):
			writeMessage(w, http.StatusBadRequest, "No valid fields to update")
		case errors.Is(err, entity.ErrLeadNotFound):
			writeMessage(w, http.StatusNotFound, "Lead not found")
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			writeMessage(w, http.StatusConflict, "Lead with this email already exists")
		default:
			internalError(w, "Update lead error", err)
		}
		return
	}

	middleware.RecordLeadUpdated()
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /api/leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	id, ok := leadID(w, r)
	if !ok {
		return
	}

	err := h.LeadRepo.Delete(r.Context(), id, principal.ID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		writeMessage(w, http.StatusNotFound, "Lead not found")
		return
	}
	if err != nil {
		internalError(w, "Delete lead error", err)
		return
	}

	middleware.RecordLeadDeleted()
	h.publishDeleted(r.Context(), ownerFrom(principal), id)
	writeMessage(w, http.StatusOK, "Lead deleted successfully")
}

func (h *LeadHandler) publishDeleted(ctx context.Context, owner usecase.Owner, id string) {
	if h.Events == nil {
		return
	}
	err := h.Events.PublishLeadEvent(ctx, queue.LeadEventPayload{
		Type:       queue.EventLeadDeleted,
		LeadID:     id,
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
	})
	if err != nil {
		log.Printf("⚠️ Falha ao publicar evento %s: %v", queue.EventLeadDeleted, err)
	}
}

// leadID valida o path param. Id que nem é UUID recebe o mesmo 404 de um
// id inexistente, em vez de estourar cast no banco.
func leadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusNotFound, "Lead not found")
		return "", false
	}
	return id, true
}

func ownerFrom(principal *middleware.Principal) usecase.Owner {
	return usecase.Owner{
		ID:    principal.ID,
		Name:  principal.FirstName + " " + principal.LastName,
		Email: principal.Email,
	}
}
