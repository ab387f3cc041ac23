package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/query"
)

type LeadRepositoryInterface interface {
	List(ctx context.Context, ownerID string, filters url.Values, page query.Page) (*entity.LeadPage, error)
	FindByID(ctx context.Context, id, ownerID string) (*entity.Lead, error)
	Create(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, id, ownerID string, patch map[string]any, now time.Time) (*entity.Lead, error)
	Delete(ctx context.Context, id, ownerID string) error
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}
