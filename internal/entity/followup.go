package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	FollowUpStatusPending   = "PENDING"
	FollowUpStatusSent      = "SENT"
	FollowUpStatusCancelled = "CANCELLED"
)

// Entidade: FollowUp (uma tentativa de retomada ligada a exatamente um Email)
//
// Invariante central do sistema: no máximo UM follow-up PENDING por email.
// O banco garante isso com um índice único parcial (ver db/schema.sql);
// aqui só modelamos os estados. SENT e CANCELLED são terminais.
type FollowUp struct {
	ID      string `json:"id"`
	EmailID string `json:"email_id"`

	// Referência fraca: follow-up sem Client é permitido
	ClientID string `json:"client_id,omitempty"`

	// Vazio até o rascunho ser gerado; regerar apenas substitui o texto
	Content string `json:"content,omitempty"`

	Status      string    `json:"status"` // PENDING, SENT, CANCELLED
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Factory
func NewFollowUp(emailID, clientID, content string, scheduledAt time.Time) (*FollowUp, error) {
	f := &FollowUp{
		ID:          uuid.New().String(),
		EmailID:     emailID,
		ClientID:    clientID,
		Content:     content,
		Status:      FollowUpStatusPending,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *FollowUp) Validate() error {
	if f.EmailID == "" {
		return errors.New("email_id is required")
	}
	return nil
}

func (f *FollowUp) IsTerminal() bool {
	return f.Status == FollowUpStatusSent || f.Status == FollowUpStatusCancelled
}

// FollowUpWithContext carrega o follow-up já com o email e o cliente juntados
// (o que as telas de revisão de rascunho consomem)
type FollowUpWithContext struct {
	FollowUp
	Email  *Email  `json:"email,omitempty"`
	Client *Client `json:"client,omitempty"`
}

type FollowUpRepositoryInterface interface {
	// Create mapeia a violação do índice único parcial para ErrFollowUpAlreadyPending
	Create(ctx context.Context, f *FollowUp) error

	FindByID(ctx context.Context, id string) (*FollowUpWithContext, error)
	FindByStatus(ctx context.Context, status string) ([]*FollowUpWithContext, error)
	FindPendingByEmail(ctx context.Context, emailID string) (*FollowUp, error)
	FindByEmail(ctx context.Context, emailID string) ([]*FollowUp, error)

	UpdateContent(ctx context.Context, id, content string) error

	// MarkSent só transiciona a partir de PENDING; em estado terminal retorna
	// ErrFollowUpTerminal
	MarkSent(ctx context.Context, id string) error

	// CancelPending cancela todos os PENDING do email (os SENT ficam intocados)
	CancelPending(ctx context.Context, emailID string) (int, error)

	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
