package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type UpdateLeadUseCase struct {
	Repo   LeadRepositoryInterface
	Events LeadEventPublisher
}

func NewUpdateLeadUseCase(repo LeadRepositoryInterface, events LeadEventPublisher) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{
		Repo:   repo,
		Events: events,
	}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, owner Owner, id string, patch map[string]any) (*entity.Lead, error) {
	if errs := ValidateLeadPatch(patch); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	// Existência dentro do escopo do dono; lead de outro usuário devolve
	// o mesmo not-found de um id inexistente.
	current, err := uc.Repo.FindByID(ctx, id, owner.ID)
	if err != nil {
		return nil, err
	}

	// Precondição de unicidade se o patch muda o email. Corrida entre a
	// checagem e o UPDATE fica por conta da constraint do banco.
	if value, ok := patch["email"]; ok {
		if email, isString := value.(string); isString && email != current.Email {
			taken, err := uc.Repo.EmailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, entity.ErrEmailAlreadyExists
			}
		}
	}

	updated, err := uc.Repo.Update(ctx, id, owner.ID, patch, time.Now())
	if err != nil {
		return nil, err
	}

	publishLeadEvent(ctx, uc.Events, queue.EventLeadUpdated, owner, updated)

	return updated, nil
}
