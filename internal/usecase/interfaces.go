package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/gmail"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// ContentGenerator é a capacidade mínima que exigimos do colaborador de
// geração de texto (OpenAI hoje, qualquer vendor amanhã)
type ContentGenerator interface {
	DraftFollowUp(ctx context.Context, original openai.OriginalEmail) (string, error)
	AnalyzeReply(ctx context.Context, original openai.OriginalEmail, reply string) (*openai.ReplyAnalysis, error)
	DraftChainReply(ctx context.Context, original openai.OriginalEmail, reply string, analysis *openai.ReplyAnalysis) (string, error)
}

// MailTransport: só envio. Erro de transporte é sempre retryável.
type MailTransport interface {
	Send(to, subject, body string) (string, error)
}

// ThreadInspector lista mensagens não lidas de uma thread (polling de respostas)
type ThreadInspector interface {
	ListUnreadInThread(ctx context.Context, threadID string) ([]gmail.ThreadMessage, error)
}

type QueueProducerInterface interface {
	PublishFollowUp(ctx context.Context, payload queue.FollowUpPayload) error
	PublishReply(ctx context.Context, payload queue.ReplyPayload) error
}

// --- Inputs / Outputs ---

type ComposeEmailInput struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	ClientID  string `json:"client_id,omitempty"`
}

type CreateFollowUpInput struct {
	EmailID      string     `json:"email_id"`
	ClientID     string     `json:"client_id,omitempty"`
	Content      string     `json:"content,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

type ReconcileReplyInput struct {
	ThreadID  string `json:"thread_id"`
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

type ReconcileReplyOutput struct {
	Message            string                `json:"message"`
	AlreadyReconciled  bool                  `json:"already_reconciled,omitempty"`
	Analysis           *openai.ReplyAnalysis `json:"analysis,omitempty"`
	CancelledFollowUps int                   `json:"cancelled_follow_ups"`
	ChainReply         *entity.Email         `json:"chain_reply,omitempty"`
}

type CreateClientInput struct {
	CompanyName     string `json:"company_name"`
	LeadName        string `json:"lead_name"`
	Email           string `json:"email"`
	LastContactDate string `json:"last_contact_date,omitempty"`
	NextFollowUp    string `json:"next_follow_up,omitempty"`
	Status          string `json:"status,omitempty"`
}
