package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// SendFollowUpUseCase dispara um follow-up já revisado. Envio é uma ação
// explícita do operador (PUT /follow-ups), nunca automática — rascunho
// gerado passa por revisão humana antes de sair.
type SendFollowUpUseCase struct {
	FollowUpRepo entity.FollowUpRepositoryInterface
	ClientRepo   entity.ClientRepositoryInterface
	Transport    MailTransport

	Now func() time.Time
}

func NewSendFollowUpUseCase(
	followUpRepo entity.FollowUpRepositoryInterface,
	clientRepo entity.ClientRepositoryInterface,
	transport MailTransport,
) *SendFollowUpUseCase {
	return &SendFollowUpUseCase{
		FollowUpRepo: followUpRepo,
		ClientRepo:   clientRepo,
		Transport:    transport,
		Now:          time.Now,
	}
}

func (uc *SendFollowUpUseCase) Execute(ctx context.Context, followUpID string) (*entity.FollowUp, error) {
	fuc, err := uc.FollowUpRepo.FindByID(ctx, followUpID)
	if err != nil {
		return nil, err
	}

	if fuc.Status != entity.FollowUpStatusPending {
		return nil, &DomainError{
			Code:    CodeNotPending,
			Message: fmt.Sprintf("follow-up %s está %s, só PENDING pode ser enviado", fuc.ID, fuc.Status),
		}
	}
	if fuc.Content == "" {
		return nil, &DomainError{
			Code:    CodeEmptyContent,
			Message: "follow-up ainda sem rascunho gerado",
		}
	}
	if fuc.Email == nil {
		return nil, entity.ErrEmailNotFound
	}

	subject := "Re: " + fuc.Email.Subject

	msgID, err := uc.Transport.Send(fuc.Email.Recipient, subject, fuc.Content)
	if err != nil {
		// Transporte falhou: follow-up continua PENDING, operador tenta de novo
		middleware.RecordIntegrationError("smtp")
		return nil, &TechnicalError{
			Code:    CodeAdapterFailure,
			Message: "falha no envio do follow-up: " + err.Error(),
		}
	}

	if err := uc.FollowUpRepo.MarkSent(ctx, fuc.ID); err != nil {
		// Email saiu mas o status não gravou — melhor logar alto do que
		// mandar de novo
		log.Printf("⚠️ CRITICAL: follow-up %s enviado (msg %s) mas status não atualizado: %v", fuc.ID, msgID, err)
		return nil, err
	}
	fuc.Status = entity.FollowUpStatusSent
	middleware.RecordFollowUpSent()

	if fuc.ClientID != "" {
		if err := uc.ClientRepo.TouchLastContact(ctx, fuc.ClientID, uc.Now()); err != nil {
			log.Printf("⚠️ Falha ao atualizar last_contact do cliente %s: %v", fuc.ClientID, err)
		}
	}

	log.Printf("📤 Follow-up %s enviado para %s (msg %s)", fuc.ID, fuc.Email.Recipient, msgID)
	return &fuc.FollowUp, nil
}
