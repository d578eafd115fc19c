package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
)

// ReconcileReplyUseCase aplica uma resposta recebida ao estado do sistema:
// email original vira REPLIED, follow-ups PENDING são cancelados (os SENT
// ficam como estão) e, se a análise pedir retorno, nasce um chain-reply em
// DRAFT com follow-up próprio agendado threshold dias pra frente.
type ReconcileReplyUseCase struct {
	EmailRepo    entity.EmailRepositoryInterface
	FollowUpRepo entity.FollowUpRepositoryInterface
	ClientRepo   entity.ClientRepositoryInterface
	Generator    ContentGenerator

	ThresholdDays int
	GenTimeout    time.Duration
	Now           func() time.Time
}

func NewReconcileReplyUseCase(
	emailRepo entity.EmailRepositoryInterface,
	followUpRepo entity.FollowUpRepositoryInterface,
	clientRepo entity.ClientRepositoryInterface,
	generator ContentGenerator,
	thresholdDays int,
) *ReconcileReplyUseCase {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return &ReconcileReplyUseCase{
		EmailRepo:     emailRepo,
		FollowUpRepo:  followUpRepo,
		ClientRepo:    clientRepo,
		Generator:     generator,
		ThresholdDays: thresholdDays,
		GenTimeout:    30 * time.Second,
		Now:           time.Now,
	}
}

func (uc *ReconcileReplyUseCase) Execute(ctx context.Context, input ReconcileReplyInput) (*ReconcileReplyOutput, error) {
	if errs := ValidateReconcileReplyInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	email, err := uc.EmailRepo.FindFirstInThread(ctx, input.ThreadID)
	if err != nil {
		return nil, err
	}

	// Reconciliar duas vezes (webhook duplicado) é no-op, não erro
	if email.Status == entity.EmailStatusReplied {
		log.Printf("⏭️ Thread %s já reconciliada", input.ThreadID)
		return &ReconcileReplyOutput{
			Message:           "reply already reconciled",
			AlreadyReconciled: true,
		}, nil
	}

	original := openai.OriginalEmail{
		Subject:   email.Subject,
		Body:      email.Body,
		Recipient: email.Recipient,
	}

	// Quando veio só a detecção (polling de thread, sem corpo), pula a
	// análise: marca respondido e cancela os pendentes do mesmo jeito
	var analysis *openai.ReplyAnalysis
	if strings.TrimSpace(input.Content) != "" {
		genCtx, cancel := context.WithTimeout(ctx, uc.GenTimeout)
		analysis, err = uc.Generator.AnalyzeReply(genCtx, original, input.Content)
		cancel()
		if err != nil {
			middleware.RecordIntegrationError("openai")
			return nil, &TechnicalError{
				Code:    CodeAdapterFailure,
				Message: "falha ao analisar resposta: " + err.Error(),
			}
		}
	}

	if err := uc.EmailRepo.MarkReplied(ctx, email.ID); err != nil {
		return nil, err
	}

	cancelled, err := uc.FollowUpRepo.CancelPending(ctx, email.ID)
	if err != nil {
		return nil, err
	}
	if cancelled > 0 {
		middleware.RecordFollowUpsCancelled(cancelled)
		log.Printf("🚫 %d follow-up(s) cancelado(s) para o email %s", cancelled, email.ID)
	}

	if email.ClientID != "" {
		if err := uc.ClientRepo.TouchLastContact(ctx, email.ClientID, uc.Now()); err != nil {
			log.Printf("⚠️ Falha ao atualizar last_contact do cliente %s: %v", email.ClientID, err)
		}
	}

	output := &ReconcileReplyOutput{
		Message:            "reply processed",
		Analysis:           analysis,
		CancelledFollowUps: cancelled,
	}

	if analysis != nil && analysis.NeedsResponse {
		chain, err := uc.createChainReply(ctx, email, original, input, analysis)
		if err != nil {
			// Reconciliação principal já valeu; o chain pode ser refeito
			log.Printf("⚠️ Falha ao criar chain-reply da thread %s: %v", input.ThreadID, err)
		} else {
			output.ChainReply = chain
		}
	}

	middleware.RecordReplyReconciled()
	return output, nil
}

// Reconcile é o atalho que o worker da fila usa (payload cru, sem output)
func (uc *ReconcileReplyUseCase) Reconcile(ctx context.Context, threadID, messageID, subject, content string) error {
	_, err := uc.Execute(ctx, ReconcileReplyInput{
		ThreadID:  threadID,
		MessageID: messageID,
		Subject:   subject,
		Content:   content,
	})
	return err
}

func (uc *ReconcileReplyUseCase) createChainReply(
	ctx context.Context,
	email *entity.Email,
	original openai.OriginalEmail,
	input ReconcileReplyInput,
	analysis *openai.ReplyAnalysis,
) (*entity.Email, error) {
	genCtx, cancel := context.WithTimeout(ctx, uc.GenTimeout)
	defer cancel()

	content, err := uc.Generator.DraftChainReply(genCtx, original, input.Content, analysis)
	if err != nil {
		middleware.RecordIntegrationError("openai")
		return nil, err
	}

	subject := input.Subject
	if subject == "" {
		subject = email.Subject
	}
	if !strings.HasPrefix(subject, "Re: ") {
		subject = "Re: " + subject
	}

	chainEmail, err := entity.NewEmail(email.Recipient, subject, content, email.ClientID)
	if err != nil {
		return nil, err
	}
	chainEmail.ThreadID = email.ThreadID // mesma conversa

	chainFollowUp, err := entity.NewFollowUp(
		chainEmail.ID,
		email.ClientID,
		content,
		uc.Now().AddDate(0, 0, uc.ThresholdDays),
	)
	if err != nil {
		return nil, err
	}

	// Email do chain + follow-up vivem ou morrem juntos
	txn := NewTransaction()
	txn.AddOperation("create_chain_email", func(ctx context.Context) error {
		return uc.EmailRepo.Create(ctx, chainEmail)
	})
	txn.AddCompensation("delete_chain_email", func(ctx context.Context) error {
		return uc.EmailRepo.Delete(ctx, chainEmail.ID)
	})
	txn.AddOperation("create_chain_follow_up", func(ctx context.Context) error {
		return uc.FollowUpRepo.Create(ctx, chainFollowUp)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "failed to persist chain reply: " + err.Error(),
		}
	}

	middleware.RecordDraftGenerated("chain-reply")
	log.Printf("🔗 Chain-reply %s criado na thread %s", chainEmail.ID, email.ThreadID)
	return chainEmail, nil
}
