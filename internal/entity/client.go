package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Status do funil de vendas
const (
	ClientStatusNew          = "NEW"
	ClientStatusContacted    = "CONTACTED"
	ClientStatusProposalSent = "PROPOSAL_SENT"
	ClientStatusNegotiating  = "NEGOTIATING"
	ClientStatusClosed       = "CLOSED"
	ClientStatusLost         = "LOST"
)

// Entidade: Client (conta/contato do CRM)
type Client struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	LeadName    string `json:"lead_name"`
	Email       string `json:"email"`

	Status          string     `json:"status"` // NEW, CONTACTED, PROPOSAL_SENT, NEGOTIATING, CLOSED, LOST
	LastContactDate time.Time  `json:"last_contact_date"`
	NextFollowUp    *time.Time `json:"next_follow_up,omitempty"`

	// IDs externos (Pipedrive)
	PipedriveOrgID    int `json:"pipedrive_org_id,omitempty"`
	PipedrivePersonID int `json:"pipedrive_person_id,omitempty"`
	PipedriveDealID   int `json:"pipedrive_deal_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewClient(companyName, leadName, email string) (*Client, error) {
	client := &Client{
		ID:              uuid.New().String(),
		CompanyName:     companyName,
		LeadName:        leadName,
		Email:           email,
		Status:          ClientStatusNew,
		LastContactDate: time.Now(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) Validate() error {
	if c.CompanyName == "" {
		return errors.New("company_name is required")
	}
	if c.LeadName == "" {
		return errors.New("lead_name is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	// Invariante: nextFollowUp nunca fica atrás do último contato
	if c.NextFollowUp != nil && c.NextFollowUp.Before(c.LastContactDate) {
		return errors.New("next_follow_up must be >= last_contact_date")
	}
	return nil
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	Upsert(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)
	UpdateStatus(ctx context.Context, id, status string) error
	TouchLastContact(ctx context.Context, id string, when time.Time) error

	// SavePipedriveIDs grava os IDs externos após o sync (best-effort)
	SavePipedriveIDs(ctx context.Context, id string, orgID, personID, dealID int) error

	// EscalateDue promove clientes NEW -> CONTACTED quando o next_follow_up venceu
	EscalateDue(ctx context.Context, now time.Time) (int, error)
}
