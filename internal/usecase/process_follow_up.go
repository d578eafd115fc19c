package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
)

// ProcessFollowUpUseCase é o que o worker executa pra cada job `follow-up`:
// garante que existe um follow-up PENDING pro email e gera o rascunho.
// Idempotente de ponta a ponta — o mesmo job entregue duas vezes (cron
// duplicado, redelivery da fila) converge pro mesmo estado.
type ProcessFollowUpUseCase struct {
	EmailRepo    entity.EmailRepositoryInterface
	FollowUpRepo entity.FollowUpRepositoryInterface
	Generator    ContentGenerator

	ThresholdDays int
	GenTimeout    time.Duration
	Now           func() time.Time
}

func NewProcessFollowUpUseCase(
	emailRepo entity.EmailRepositoryInterface,
	followUpRepo entity.FollowUpRepositoryInterface,
	generator ContentGenerator,
	thresholdDays int,
) *ProcessFollowUpUseCase {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return &ProcessFollowUpUseCase{
		EmailRepo:     emailRepo,
		FollowUpRepo:  followUpRepo,
		Generator:     generator,
		ThresholdDays: thresholdDays,
		GenTimeout:    30 * time.Second,
		Now:           time.Now,
	}
}

func (uc *ProcessFollowUpUseCase) Execute(ctx context.Context, emailID string) (*entity.FollowUp, error) {
	email, err := uc.EmailRepo.FindByID(ctx, emailID)
	if err != nil {
		return nil, err
	}

	// Chegou resposta (ou falhou) entre o scan e o pop? Job velho, ignora.
	if email.Status != entity.EmailStatusSent {
		log.Printf("⏭️ Follow-up ignorado: email %s está %s", email.ID, email.Status)
		return nil, nil
	}

	followUp, created, err := uc.ensurePending(ctx, email)
	if err != nil {
		return nil, err
	}
	if followUp == nil {
		// Não venceu ou já teve follow-up enviado — nada a fazer
		return nil, nil
	}
	if created {
		middleware.RecordFollowUpScheduled()
	}

	// Rascunho: se o conteúdo já existe (operador criou, ou retry depois do
	// sucesso), não gera de novo
	if followUp.Content != "" {
		return followUp, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, uc.GenTimeout)
	defer cancel()

	content, err := uc.Generator.DraftFollowUp(genCtx, openai.OriginalEmail{
		Subject:   email.Subject,
		Body:      email.Body,
		Recipient: email.Recipient,
	})
	if err != nil {
		// Follow-up fica PENDING com conteúdo vazio: retry é seguro
		middleware.RecordIntegrationError("openai")
		return followUp, fmt.Errorf("falha ao gerar rascunho do follow-up %s: %w", followUp.ID, err)
	}

	if err := uc.FollowUpRepo.UpdateContent(ctx, followUp.ID, content); err != nil {
		return followUp, err
	}
	followUp.Content = content
	middleware.RecordDraftGenerated("follow-up")

	log.Printf("✍️ Rascunho gerado para follow-up %s (email %s)", followUp.ID, email.ID)
	return followUp, nil
}

// ensurePending devolve o PENDING existente ou cria um novo se o email
// estiver vencido. created=true só quando este chamador criou.
func (uc *ProcessFollowUpUseCase) ensurePending(ctx context.Context, email *entity.Email) (*entity.FollowUp, bool, error) {
	existing, err := uc.FollowUpRepo.FindPendingByEmail(ctx, email.ID)
	if err != nil && !errors.Is(err, entity.ErrFollowUpNotFound) {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	all, err := uc.FollowUpRepo.FindByEmail(ctx, email.ID)
	if err != nil {
		return nil, false, err
	}
	if !IsFollowUpDue(email, all, uc.Now(), uc.ThresholdDays) {
		log.Printf("⏭️ Email %s não está vencido, follow-up não criado", email.ID)
		return nil, false, nil
	}

	followUp, err := entity.NewFollowUp(email.ID, email.ClientID, "", uc.Now())
	if err != nil {
		return nil, false, err
	}

	if err := uc.FollowUpRepo.Create(ctx, followUp); err != nil {
		if errors.Is(err, entity.ErrFollowUpAlreadyPending) {
			// Corrida benigna: outro scan/worker criou primeiro. Sucesso
			// por idempotência — usa o que ganhou a corrida.
			winner, ferr := uc.FollowUpRepo.FindPendingByEmail(ctx, email.ID)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	log.Printf("📌 Follow-up %s agendado para email %s", followUp.ID, email.ID)
	return followUp, true, nil
}
