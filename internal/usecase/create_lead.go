package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo   LeadRepositoryInterface
	Events LeadEventPublisher
}

func NewCreateLeadUseCase(repo LeadRepositoryInterface, events LeadEventPublisher) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:   repo,
		Events: events,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, owner Owner, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	// Pré-checagem de unicidade: só conforto de UX. A garantia real é a
	// constraint UNIQUE do banco, que o repositório traduz em conflito.
	taken, err := uc.Repo.EmailTaken(ctx, input.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, entity.ErrEmailAlreadyExists
	}

	lead := entity.NewLead(owner.ID, input.FirstName, input.LastName, input.Email, input.Source)
	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.City = input.City
	lead.State = input.State
	if input.Status != "" {
		lead.Status = input.Status
	}
	if input.Score != nil {
		lead.Score = *input.Score
	}
	if input.LeadValue != nil {
		lead.LeadValue = *input.LeadValue
	}
	if input.IsQualified != nil {
		lead.IsQualified = *input.IsQualified
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	publishLeadEvent(ctx, uc.Events, queue.EventLeadCreated, owner, lead)

	return lead, nil
}

// publishLeadEvent é best effort: falha de broker não derruba uma
// mutação já confirmada no banco.
func publishLeadEvent(ctx context.Context, events LeadEventPublisher, eventType string, owner Owner, lead *entity.Lead) {
	if events == nil {
		return
	}

	payload := queue.LeadEventPayload{
		Type:       eventType,
		LeadID:     lead.ID,
		LeadName:   lead.FirstName + " " + lead.LastName,
		LeadEmail:  lead.Email,
		Source:     lead.Source,
		Status:     lead.Status,
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
	}

	if err := events.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("⚠️ Falha ao publicar evento %s: %v", eventType, err)
	}
}
