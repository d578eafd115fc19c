package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/pipedrive"
)

// DealSyncer é o recorte do Pipedrive que o cadastro de clientes usa
type DealSyncer interface {
	CreateOrganization(ctx context.Context, name string) (int, error)
	CreatePerson(ctx context.Context, input pipedrive.CreatePersonInput) (int, error)
	CreateDeal(ctx context.Context, input pipedrive.CreateDealInput) (int, error)
}

type CreateClientUseCase struct {
	ClientRepo entity.ClientRepositoryInterface

	// Syncer é opcional: sem token configurado o cadastro funciona igual,
	// só não espelha no Pipedrive
	Syncer      DealSyncer
	SyncTimeout time.Duration

	Now func() time.Time
}

func NewCreateClientUseCase(clientRepo entity.ClientRepositoryInterface, syncer DealSyncer) *CreateClientUseCase {
	return &CreateClientUseCase{
		ClientRepo:  clientRepo,
		Syncer:      syncer,
		SyncTimeout: 10 * time.Second,
		Now:         time.Now,
	}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, input CreateClientInput) (*entity.Client, error) {
	if errs := ValidateCreateClientInput(input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	client, err := entity.NewClient(input.CompanyName, input.LeadName, input.Email)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	if input.Status != "" {
		client.Status = input.Status
	}
	if input.LastContactDate != "" {
		if t, ok := parseDate(input.LastContactDate); ok {
			client.LastContactDate = t
		}
	}
	if input.NextFollowUp != "" {
		if t, ok := parseDate(input.NextFollowUp); ok {
			client.NextFollowUp = &t
		}
	}

	// Revalida depois dos overrides de data: o payload pode ter colocado
	// o next_follow_up atrás do last_contact_date
	if err := client.Validate(); err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	// Upsert por email: cadastrar duas vezes não duplica o cliente
	if err := uc.ClientRepo.Upsert(ctx, client); err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "erro ao salvar cliente", Err: err}
	}

	// Espelho no Pipedrive fora do caminho crítico: falha aqui não
	// derruba o cadastro
	if uc.Syncer != nil {
		go uc.syncPipedrive(*client)
	}

	return client, nil
}

func (uc *CreateClientUseCase) syncPipedrive(c entity.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.SyncTimeout)
	defer cancel()

	orgID, err := uc.Syncer.CreateOrganization(ctx, c.CompanyName)
	if err != nil {
		log.Printf("⚠️ Pipedrive: erro ao criar organização (client=%s): %v", c.ID, err)
		middleware.RecordIntegrationError("pipedrive")
		return
	}

	personID, err := uc.Syncer.CreatePerson(ctx, pipedrive.CreatePersonInput{
		Name:  c.LeadName,
		Email: c.Email,
		OrgID: orgID,
	})
	if err != nil {
		log.Printf("⚠️ Pipedrive: erro ao criar pessoa (client=%s): %v", c.ID, err)
		middleware.RecordIntegrationError("pipedrive")
		return
	}

	dealID, err := uc.Syncer.CreateDeal(ctx, pipedrive.CreateDealInput{
		Title:    c.CompanyName,
		PersonID: personID,
		OrgID:    orgID,
	})
	if err != nil {
		log.Printf("⚠️ Pipedrive: erro ao criar negócio (client=%s): %v", c.ID, err)
		middleware.RecordIntegrationError("pipedrive")
		return
	}

	if err := uc.ClientRepo.SavePipedriveIDs(ctx, c.ID, orgID, personID, dealID); err != nil {
		log.Printf("⚠️ Erro ao gravar IDs do Pipedrive (client=%s): %v", c.ID, err)
		return
	}

	log.Printf("✅ Cliente %s espelhado no Pipedrive (deal=%d)", c.ID, dealID)
}
