package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/gmail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// ThreadInspector: só o que o polling de respostas precisa do Gmail
type ThreadInspector interface {
	ListUnreadInThread(ctx context.Context, threadID string) ([]gmail.ThreadMessage, error)
}

// Scheduler varre emails SENT vencidos e publica jobs de follow-up na fila.
// Também faz o polling de respostas nas threads abertas.
type Scheduler struct {
	EmailRepo  entity.EmailRepositoryInterface
	ClientRepo entity.ClientRepositoryInterface
	Producer   queue.ProducerInterface
	Inspector  ThreadInspector

	ThresholdDays int
	ScanInterval  time.Duration
	PollInterval  time.Duration
	PollBatchSize int

	Now func() time.Time
}

func NewScheduler(
	emailRepo entity.EmailRepositoryInterface,
	clientRepo entity.ClientRepositoryInterface,
	producer queue.ProducerInterface,
	inspector ThreadInspector,
	thresholdDays int,
	scanInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		EmailRepo:     emailRepo,
		ClientRepo:    clientRepo,
		Producer:      producer,
		Inspector:     inspector,
		ThresholdDays: thresholdDays,
		ScanInterval:  scanInterval,
		PollInterval:  5 * time.Minute,
		PollBatchSize: 50,
		Now:           time.Now,
	}
}

// Start roda os dois loops até o contexto encerrar
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("🕒 Scheduler iniciado (scan=%s threshold=%dd)", s.ScanInterval, s.ThresholdDays)

	scanTicker := time.NewTicker(s.ScanInterval)
	defer scanTicker.Stop()

	pollTicker := time.NewTicker(s.PollInterval)
	defer pollTicker.Stop()

	// Primeira varredura na subida, sem esperar o tick
	s.ScanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Scheduler encerrado")
			return
		case <-scanTicker.C:
			s.ScanOnce(ctx)
		case <-pollTicker.C:
			s.CheckReplies(ctx)
		}
	}
}

// ScanOnce publica um job por email SENT cujo prazo venceu e ainda não
// tem follow-up. Republicar o mesmo email é inofensivo: a unicidade do
// PENDING está no banco.
func (s *Scheduler) ScanOnce(ctx context.Context) int {
	now := s.Now()
	cutoff := now.AddDate(0, 0, -s.ThresholdDays)

	emails, err := s.EmailRepo.FindDueForFollowUp(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Erro ao buscar emails vencidos: %v", err)
		return 0
	}

	scheduled := 0
	for _, email := range emails {
		payload := queue.FollowUpPayload{
			EmailID:      email.ID,
			ClientID:     email.ClientID,
			ScheduledFor: now,
		}
		if err := s.Producer.PublishFollowUp(ctx, payload); err != nil {
			log.Printf("❌ Erro ao publicar follow-up (email=%s): %v", email.ID, err)
			continue
		}
		middleware.RecordFollowUpScheduled()
		scheduled++
	}

	if scheduled > 0 {
		log.Printf("📬 Scan: %d follow-up(s) agendado(s)", scheduled)
	}

	// Manutenção do funil: NEW -> CONTACTED quando o next_follow_up venceu
	if n, err := s.ClientRepo.EscalateDue(ctx, now); err != nil {
		log.Printf("⚠️ Erro ao escalar clientes: %v", err)
	} else if n > 0 {
		log.Printf("📈 %d cliente(s) escalado(s) para CONTACTED", n)
	}

	return scheduled
}

// CheckReplies olha as threads dos emails SENT e publica um job de reply
// para cada mensagem não lida. O payload vai sem corpo: a API de metadata
// não entrega o texto, e a reconciliação sabe lidar com isso.
func (s *Scheduler) CheckReplies(ctx context.Context) int {
	emails, err := s.EmailRepo.FindByStatus(ctx, entity.EmailStatusSent, s.PollBatchSize)
	if err != nil {
		log.Printf("❌ Erro ao buscar emails SENT: %v", err)
		return 0
	}

	found := 0
	for _, email := range emails {
		if email.ThreadID == "" {
			continue
		}

		msgs, err := s.Inspector.ListUnreadInThread(ctx, email.ThreadID)
		if err != nil {
			log.Printf("⚠️ Erro ao consultar thread %s: %v", email.ThreadID, err)
			middleware.RecordIntegrationError("gmail")
			continue
		}

		for _, msg := range msgs {
			payload := queue.ReplyPayload{
				ThreadID:  email.ThreadID,
				MessageID: msg.MessageID,
				Subject:   msg.Subject,
			}
			if err := s.Producer.PublishReply(ctx, payload); err != nil {
				log.Printf("❌ Erro ao publicar reply (thread=%s): %v", email.ThreadID, err)
				continue
			}
			found++
		}
	}

	if found > 0 {
		log.Printf("📨 Polling: %d resposta(s) detectada(s)", found)
	}

	return found
}
