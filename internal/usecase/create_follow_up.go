package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// CreateFollowUpUseCase atende o POST /follow-ups: o operador pede um
// follow-up explícito (sem esperar o threshold) e o job de rascunho vai
// pra fila
type CreateFollowUpUseCase struct {
	EmailRepo    entity.EmailRepositoryInterface
	FollowUpRepo entity.FollowUpRepositoryInterface
	Queue        QueueProducerInterface

	Now func() time.Time
}

func NewCreateFollowUpUseCase(
	emailRepo entity.EmailRepositoryInterface,
	followUpRepo entity.FollowUpRepositoryInterface,
	producer QueueProducerInterface,
) *CreateFollowUpUseCase {
	return &CreateFollowUpUseCase{
		EmailRepo:    emailRepo,
		FollowUpRepo: followUpRepo,
		Queue:        producer,
		Now:          time.Now,
	}
}

func (uc *CreateFollowUpUseCase) Execute(ctx context.Context, input CreateFollowUpInput) (*entity.FollowUp, error) {
	if errs := ValidateCreateFollowUpInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	email, err := uc.EmailRepo.FindByID(ctx, input.EmailID)
	if err != nil {
		return nil, err
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = email.ClientID // pode continuar vazio — follow-up sem cliente é válido
	}

	scheduledAt := uc.Now()
	if input.ScheduledFor != nil {
		scheduledAt = *input.ScheduledFor
	}

	followUp, err := entity.NewFollowUp(email.ID, clientID, input.Content, scheduledAt)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	if err := uc.FollowUpRepo.Create(ctx, followUp); err != nil {
		if errors.Is(err, entity.ErrFollowUpAlreadyPending) {
			// Já existe um PENDING: devolve ele e re-enfileira o job mesmo
			// assim — processar duas vezes é inofensivo e cura job perdido
			existing, ferr := uc.FollowUpRepo.FindPendingByEmail(ctx, email.ID)
			if ferr != nil {
				return nil, ferr
			}
			followUp = existing
		} else {
			return nil, err
		}
	} else {
		middleware.RecordFollowUpScheduled()
	}

	payload := queue.FollowUpPayload{
		EmailID:      email.ID,
		ClientID:     clientID,
		ScheduledFor: scheduledAt,
	}
	if err := uc.Queue.PublishFollowUp(ctx, payload); err != nil {
		// Follow-up persistido mas sem job de rascunho: um novo POST
		// re-enfileira, então só loga
		log.Printf("⚠️ CRITICAL: Follow-up %s criado, mas falha na fila: %v", followUp.ID, err)
	}

	return followUp, nil
}
