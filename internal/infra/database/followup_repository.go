package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

// Create insere o follow-up. O índice único parcial
// (follow_ups(email_id) WHERE status='PENDING') é quem garante de verdade
// o invariante "um PENDING por email" — duas goroutines podem passar pelo
// check em memória ao mesmo tempo, o banco não deixa as duas gravarem.
func (r *FollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	query := `
		INSERT INTO follow_ups (id, email_id, client_id, content, status, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.EmailID,
		nullString(f.ClientID),
		nullString(f.Content),
		f.Status,
		f.ScheduledAt,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrFollowUpAlreadyPending
		}

		log.Printf("Erro crítico no banco (follow_ups): %v", err)
		return err
	}

	return nil
}

const followUpColumns = `f.id, f.email_id, f.client_id, f.content, f.status, f.scheduled_at, f.created_at, f.updated_at`

func (r *FollowUpRepository) FindByID(ctx context.Context, id string) (*entity.FollowUpWithContext, error) {
	query := `
		SELECT ` + followUpColumns + `,
		       e.id, e.recipient, e.subject, e.body, e.status, e.thread_id, e.sent_at,
		       c.id, c.company_name, c.lead_name, c.email, c.status
		FROM follow_ups f
		JOIN emails e ON e.id = f.email_id
		LEFT JOIN clients c ON c.id = f.client_id
		WHERE f.id = $1
	`

	fuc, err := r.scanJoined(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrFollowUpNotFound
		}
		return nil, err
	}
	return fuc, nil
}

func (r *FollowUpRepository) FindByStatus(ctx context.Context, status string) ([]*entity.FollowUpWithContext, error) {
	query := `
		SELECT ` + followUpColumns + `,
		       e.id, e.recipient, e.subject, e.body, e.status, e.thread_id, e.sent_at,
		       c.id, c.company_name, c.lead_name, c.email, c.status
		FROM follow_ups f
		JOIN emails e ON e.id = f.email_id
		LEFT JOIN clients c ON c.id = f.client_id
		WHERE f.status = $1
		ORDER BY f.scheduled_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.FollowUpWithContext
	for rows.Next() {
		fuc, err := r.scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fuc)
	}
	return out, rows.Err()
}

func (r *FollowUpRepository) FindPendingByEmail(ctx context.Context, emailID string) (*entity.FollowUp, error) {
	query := `
		SELECT id, email_id, client_id, content, status, scheduled_at, created_at, updated_at
		FROM follow_ups
		WHERE email_id = $1 AND status = 'PENDING'
		LIMIT 1
	`

	f, err := r.scanPlain(r.DB.QueryRowContext(ctx, query, emailID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrFollowUpNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *FollowUpRepository) FindByEmail(ctx context.Context, emailID string) ([]*entity.FollowUp, error) {
	query := `
		SELECT id, email_id, client_id, content, status, scheduled_at, created_at, updated_at
		FROM follow_ups
		WHERE email_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.FollowUp
	for rows.Next() {
		var f entity.FollowUp
		var clientID, content sql.NullString
		err := rows.Scan(&f.ID, &f.EmailID, &clientID, &content, &f.Status, &f.ScheduledAt, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		f.ClientID = clientID.String
		f.Content = content.String
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *FollowUpRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := `
		UPDATE follow_ups
		SET content = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`
	_, err := r.DB.ExecContext(ctx, query, id, content)
	return err
}

// MarkSent só sai de PENDING. Zero linhas + registro existente = estado
// terminal, imutável.
func (r *FollowUpRepository) MarkSent(ctx context.Context, id string) error {
	query := `
		UPDATE follow_ups
		SET status = 'SENT', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`

	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM follow_ups WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return entity.ErrFollowUpNotFound
		}
		return entity.ErrFollowUpTerminal
	}
	return nil
}

// CancelPending cancela em lote só o que está PENDING — follow-up já
// enviado não volta atrás
func (r *FollowUpRepository) CancelPending(ctx context.Context, emailID string) (int, error) {
	query := `
		UPDATE follow_ups
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE email_id = $1 AND status = 'PENDING'
	`

	res, err := r.DB.ExecContext(ctx, query, emailID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *FollowUpRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	return err
}

func (r *FollowUpRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM follow_ups GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *FollowUpRepository) scanPlain(row rowScanner) (*entity.FollowUp, error) {
	var f entity.FollowUp
	var clientID, content sql.NullString

	err := row.Scan(&f.ID, &f.EmailID, &clientID, &content, &f.Status, &f.ScheduledAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.ClientID = clientID.String
	f.Content = content.String
	return &f, nil
}

func (r *FollowUpRepository) scanJoined(row rowScanner) (*entity.FollowUpWithContext, error) {
	var fuc entity.FollowUpWithContext
	var clientID, content sql.NullString

	var email entity.Email
	var emailSentAt sql.NullTime

	var cID, cCompany, cLead, cEmail, cStatus sql.NullString

	err := row.Scan(
		&fuc.ID, &fuc.EmailID, &clientID, &content, &fuc.Status, &fuc.ScheduledAt, &fuc.CreatedAt, &fuc.UpdatedAt,
		&email.ID, &email.Recipient, &email.Subject, &email.Body, &email.Status, &email.ThreadID, &emailSentAt,
		&cID, &cCompany, &cLead, &cEmail, &cStatus,
	)
	if err != nil {
		return nil, err
	}

	fuc.ClientID = clientID.String
	fuc.Content = content.String

	if emailSentAt.Valid {
		t := emailSentAt.Time
		email.SentAt = &t
	}
	fuc.Email = &email

	if cID.Valid {
		fuc.Client = &entity.Client{
			ID:          cID.String,
			CompanyName: cCompany.String,
			LeadName:    cLead.String,
			Email:       cEmail.String,
			Status:      cStatus.String,
		}
	}

	return &fuc, nil
}
