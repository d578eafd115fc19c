package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, company_name, lead_name, email, status, last_contact_date, next_follow_up,
	pipedrive_org_id, pipedrive_person_id, pipedrive_deal_id, created_at, updated_at`

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, company_name, lead_name, email, status, last_contact_date, next_follow_up,
			pipedrive_org_id, pipedrive_person_id, pipedrive_deal_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.CompanyName,
		c.LeadName,
		c.Email,
		c.Status,
		c.LastContactDate,
		c.NextFollowUp,
		nullInt(c.PipedriveOrgID),
		nullInt(c.PipedrivePersonID),
		nullInt(c.PipedriveDealID),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		log.Printf("Erro crítico no banco (clients): %v", err)
		return err
	}

	return nil
}

// Upsert por email: sync externo (Pipedrive) e cadastro manual convergem
// no mesmo registro
func (r *ClientRepository) Upsert(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, company_name, lead_name, email, status, last_contact_date, next_follow_up, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			company_name = COALESCE(NULLIF(EXCLUDED.company_name, ''), clients.company_name),
			lead_name = COALESCE(NULLIF(EXCLUDED.lead_name, ''), clients.lead_name),
			next_follow_up = COALESCE(EXCLUDED.next_follow_up, clients.next_follow_up),
			updated_at = NOW()
		RETURNING id, status, last_contact_date, next_follow_up, created_at, updated_at
	`

	var nextFollowUp sql.NullTime
	err := r.DB.QueryRowContext(ctx, query,
		c.ID,
		c.CompanyName,
		c.LeadName,
		c.Email,
		c.Status,
		c.LastContactDate,
		c.NextFollowUp,
	).Scan(
		&c.ID,
		&c.Status,
		&c.LastContactDate,
		&nextFollowUp,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if nextFollowUp.Valid {
		c.NextFollowUp = &nextFollowUp.Time
	}

	return err
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := r.scan(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY last_contact_date DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE clients SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id, status)
	return err
}

func (r *ClientRepository) TouchLastContact(ctx context.Context, id string, when time.Time) error {
	// next_follow_up nunca pode ficar atrás do last_contact_date
	query := `
		UPDATE clients
		SET last_contact_date = $2,
		    next_follow_up = CASE
			WHEN next_follow_up IS NOT NULL AND next_follow_up < $2 THEN NULL
			ELSE next_follow_up
		    END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, when)
	return err
}

// EscalateDue promove NEW -> CONTACTED quando o next_follow_up venceu
// (passo de manutenção do cron)
func (r *ClientRepository) EscalateDue(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE clients
		SET status = 'CONTACTED', updated_at = NOW()
		WHERE status = 'NEW'
		  AND next_follow_up IS NOT NULL
		  AND next_follow_up <= $1
	`

	res, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *ClientRepository) SavePipedriveIDs(ctx context.Context, id string, orgID, personID, dealID int) error {
	query := `
		UPDATE clients
		SET pipedrive_org_id = $2, pipedrive_person_id = $3, pipedrive_deal_id = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, nullInt(orgID), nullInt(personID), nullInt(dealID))
	return err
}

func (r *ClientRepository) scan(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	var nextFollowUp sql.NullTime
	var orgID, personID, dealID sql.NullInt64

	err := row.Scan(
		&c.ID, &c.CompanyName, &c.LeadName, &c.Email, &c.Status,
		&c.LastContactDate, &nextFollowUp,
		&orgID, &personID, &dealID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextFollowUp.Valid {
		t := nextFollowUp.Time
		c.NextFollowUp = &t
	}
	c.PipedriveOrgID = int(orgID.Int64)
	c.PipedrivePersonID = int(personID.Int64)
	c.PipedriveDealID = int(dealID.Int64)

	return &c, nil
}

func nullInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
