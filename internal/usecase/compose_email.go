package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// ComposeEmailUseCase envia um email de prospecção e registra a trilha.
// Nenhum job entra na fila aqui: o scan do scheduler é a fonte única de
// "trabalho vencido" — ele pega esse email quando o threshold passar.
type ComposeEmailUseCase struct {
	EmailRepo  entity.EmailRepositoryInterface
	ClientRepo entity.ClientRepositoryInterface
	Transport  MailTransport

	Now func() time.Time
}

func NewComposeEmailUseCase(
	emailRepo entity.EmailRepositoryInterface,
	clientRepo entity.ClientRepositoryInterface,
	transport MailTransport,
) *ComposeEmailUseCase {
	return &ComposeEmailUseCase{
		EmailRepo:  emailRepo,
		ClientRepo: clientRepo,
		Transport:  transport,
		Now:        time.Now,
	}
}

func (uc *ComposeEmailUseCase) Execute(ctx context.Context, input ComposeEmailInput) (*entity.Email, error) {
	if errs := ValidateComposeEmailInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	email, err := entity.NewEmail(input.Recipient, input.Subject, input.Body, input.ClientID)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	// Persiste como DRAFT antes de tentar o transporte: se o SMTP cair,
	// o texto não se perde
	if err := uc.EmailRepo.Create(ctx, email); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "failed to persist email: " + err.Error(),
		}
	}

	msgID, err := uc.Transport.Send(input.Recipient, input.Subject, input.Body)
	if err != nil {
		middleware.RecordIntegrationError("smtp")
		if merr := uc.EmailRepo.MarkFailed(ctx, email.ID); merr != nil {
			log.Printf("⚠️ Falha ao marcar email %s como FAILED: %v", email.ID, merr)
		}
		return nil, &TechnicalError{
			Code:    CodeAdapterFailure,
			Message: "falha no envio do email: " + err.Error(),
		}
	}

	sentAt := uc.Now()
	if err := uc.EmailRepo.MarkSent(ctx, email.ID, sentAt); err != nil {
		log.Printf("⚠️ CRITICAL: email %s enviado (msg %s) mas status não atualizado: %v", email.ID, msgID, err)
		return nil, err
	}
	email.Status = entity.EmailStatusSent
	email.SentAt = &sentAt

	if input.ClientID != "" {
		if err := uc.ClientRepo.TouchLastContact(ctx, input.ClientID, sentAt); err != nil {
			log.Printf("⚠️ Falha ao atualizar last_contact do cliente %s: %v", input.ClientID, err)
		}
	}

	log.Printf("📧 Email %s enviado para %s (msg %s)", email.ID, input.Recipient, msgID)
	return email, nil
}
