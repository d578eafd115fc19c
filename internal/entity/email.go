package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	EmailStatusDraft   = "DRAFT"
	EmailStatusSent    = "SENT"
	EmailStatusReplied = "REPLIED"
	EmailStatusFailed  = "FAILED"
)

// Entidade: Email (mensagem de saída, trilha de auditoria permanente)
// Transições monotônicas: DRAFT -> SENT -> {REPLIED | FAILED}
type Email struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`

	Status   string     `json:"status"`    // DRAFT, SENT, REPLIED, FAILED
	ThreadID string     `json:"thread_id"` // agrupa a conversa (original + respostas)
	SentAt   *time.Time `json:"sent_at,omitempty"`

	// Referência fraca: o Client pode não existir ainda (ou nunca existir)
	ClientID string `json:"client_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewEmail(recipient, subject, body, clientID string) (*Email, error) {
	email := &Email{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    EmailStatusDraft,
		ThreadID:  uuid.New().String(),
		ClientID:  clientID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := email.Validate(); err != nil {
		return nil, err
	}

	return email, nil
}

func (e *Email) Validate() error {
	if e.Recipient == "" {
		return errors.New("recipient is required")
	}
	if e.Subject == "" {
		return errors.New("subject is required")
	}
	if e.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

// IsTerminal informa se o email já saiu do fluxo de follow-up
func (e *Email) IsTerminal() bool {
	return e.Status == EmailStatusReplied || e.Status == EmailStatusFailed
}

type EmailRepositoryInterface interface {
	Create(ctx context.Context, e *Email) error
	FindByID(ctx context.Context, id string) (*Email, error)
	FindAll(ctx context.Context) ([]*Email, error)

	// FindFirstInThread retorna o email mais antigo da thread (o original)
	FindFirstInThread(ctx context.Context, threadID string) (*Email, error)

	// FindDueForFollowUp: status SENT, sent_at <= cutoff e nenhum follow-up PENDING/SENT
	FindDueForFollowUp(ctx context.Context, cutoff time.Time) ([]*Email, error)

	FindByStatus(ctx context.Context, status string, limit int) ([]*Email, error)

	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkReplied(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	CountByStatus(ctx context.Context) (map[string]int, error)
}
