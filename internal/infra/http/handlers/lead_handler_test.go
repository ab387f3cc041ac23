package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/query"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

const (
	testLeadID  = "5f6e7d8c-9b0a-4c1d-8e2f-3a4b5c6d7e8f"
	testOwnerID = "11111111-2222-4333-8444-555555555555"
)

// MockLeadRepositoryHandler
type MockLeadRepositoryHandler struct {
	mock.Mock
}

func (m *MockLeadRepositoryHandler) List(ctx context.Context, ownerID string, filters url.Values, page query.Page) (*entity.LeadPage, error) {
	args := m.Called(ctx, ownerID, filters, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadPage), args.Error(1)
}

func (m *MockLeadRepositoryHandler) FindByID(ctx context.Context, id, ownerID string) (*entity.Lead, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) Update(ctx context.Context, id, ownerID string, patch map[string]any, now time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, id, ownerID, patch, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func newTestHandler(repo *MockLeadRepositoryHandler) *LeadHandler {
	return NewLeadHandler(
		usecase.NewCreateLeadUseCase(repo, nil),
		usecase.NewUpdateLeadUseCase(repo, nil),
		repo,
		nil,
	)
}

func leadRouter(h *LeadHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/leads", h.List)
	r.Post("/api/leads", h.Create)
	r.Get("/api/leads/{id}", h.Get)
	r.Put("/api/leads/{id}", h.Update)
	r.Delete("/api/leads/{id}", h.Delete)
	return r
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	principal := &middleware.Principal{
		ID:        testOwnerID,
		Email:     "owner@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	return req.WithContext(middleware.WithPrincipal(req.Context(), principal))
}

// ============ TESTES DO HANDLER ============

// TestListLeadsEnvelope
func TestListLeadsEnvelope(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)

	page := &entity.LeadPage{
		Data:       []entity.Lead{*entity.NewLead(testOwnerID, "Jane", "Doe", "jane@example.com", "website")},
		Page:       2,
		Limit:      10,
		Total:      21,
		TotalPages: 3,
	}

	mockRepo.On("List", mock.Anything, testOwnerID, mock.Anything, query.Page{Number: 2, Limit: 10}).
		Return(page, nil)

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).
		ServeHTTP(w, authedRequest("GET", "/api/leads?page=2&limit=10&score_gt=40", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, float64(2), response["page"])
	assert.Equal(t, float64(10), response["limit"])
	assert.Equal(t, float64(21), response["total"])
	assert.Equal(t, float64(3), response["total_pages"])
	assert.Len(t, response["data"], 1)

	// Os filtros crus chegam intactos ao repositório.
	mockRepo.AssertCalled(t, "List", mock.Anything, testOwnerID, mock.MatchedBy(func(filters url.Values) bool {
		return filters.Get("score_gt") == "40"
	}), mock.Anything)
}

// TestGetLeadNotFound - id de outro dono, id inexistente e id que nem é
// UUID: todos o mesmo 404
func TestGetLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByID", mock.Anything, testLeadID, testOwnerID).Return(nil, entity.ErrLeadNotFound)

	router := leadRouter(newTestHandler(mockRepo))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/leads/"+testLeadID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/leads/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertNumberOfCalls(t, "FindByID", 1)
}

// TestCreateLeadCreated
func TestCreateLeadCreated(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("EmailTaken", mock.Anything, "jane@example.com", "").Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"source":     "referral",
	})

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("POST", "/api/leads", body))

	assert.Equal(t, http.StatusCreated, w.Code)

	var lead entity.Lead
	json.NewDecoder(w.Body).Decode(&lead)
	assert.Equal(t, testOwnerID, lead.UserID)
	assert.Equal(t, "new", lead.Status)
}

// TestCreateLeadValidationErrorBody
func TestCreateLeadValidationErrorBody(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)

	body, _ := json.Marshal(map[string]any{"first_name": "Jane"})

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("POST", "/api/leads", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Message string                    `json:"message"`
		Errors  []usecase.ValidationError `json:"errors"`
	}
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Validation errors", response.Message)
	assert.NotEmpty(t, response.Errors)
}

// TestCreateLeadConflict
func TestCreateLeadConflict(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("EmailTaken", mock.Anything, "jane@example.com", "").Return(true, nil)

	body, _ := json.Marshal(map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"source":     "website",
	})

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("POST", "/api/leads", body))

	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestUpdateLeadNoFields
func TestUpdateLeadNoFields(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	lead := entity.NewLead(testOwnerID, "Jane", "Doe", "jane@example.com", "website")
	mockRepo.On("FindByID", mock.Anything, testLeadID, testOwnerID).Return(lead, nil)
	mockRepo.On("Update", mock.Anything, testLeadID, testOwnerID, mock.Anything, mock.Anything).
		Return(nil, query.ErrNoUpdatableFields)

	body, _ := json.Marshal(map[string]any{"nonexistent": "x"})

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("PUT", "/api/leads/"+testLeadID, body))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "No valid fields to update", response["message"])
}

// TestUpdateLeadSuccess
func TestUpdateLeadSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)

	lead := entity.NewLead(testOwnerID, "Jane", "Doe", "jane@example.com", "website")
	updated := *lead
	updated.Status = "won"

	mockRepo.On("FindByID", mock.Anything, testLeadID, testOwnerID).Return(lead, nil)
	mockRepo.On("Update", mock.Anything, testLeadID, testOwnerID, mock.Anything, mock.Anything).
		Return(&updated, nil)

	body, _ := json.Marshal(map[string]any{"status": "won"})

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("PUT", "/api/leads/"+testLeadID, body))

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Lead
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "won", response.Status)
}

// TestDeleteLead
func TestDeleteLead(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Delete", mock.Anything, testLeadID, testOwnerID).Return(nil)

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("DELETE", "/api/leads/"+testLeadID, nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Lead deleted successfully", response["message"])
}

// TestDeleteLeadNotOwned
func TestDeleteLeadNotOwned(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Delete", mock.Anything, testLeadID, testOwnerID).Return(entity.ErrLeadNotFound)

	w := httptest.NewRecorder()
	leadRouter(newTestHandler(mockRepo)).ServeHTTP(w, authedRequest("DELETE", "/api/leads/"+testLeadID, nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
