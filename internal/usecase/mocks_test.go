package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/query"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context, ownerID string, filters url.Values, page query.Page) (*entity.LeadPage, error) {
	args := m.Called(ctx, ownerID, filters, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadPage), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id, ownerID string) (*entity.Lead, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, id, ownerID string, patch map[string]any, now time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, id, ownerID, patch, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockLeadRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
