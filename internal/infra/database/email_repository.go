package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type EmailRepository struct {
	DB *sql.DB
}

func NewEmailRepository(db *sql.DB) *EmailRepository {
	return &EmailRepository{DB: db}
}

const emailColumns = `id, recipient, subject, body, status, thread_id, sent_at, client_id, created_at, updated_at`

func (r *EmailRepository) Create(ctx context.Context, e *entity.Email) error {
	query := `
		INSERT INTO emails (id, recipient, subject, body, status, thread_id, sent_at, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.Recipient,
		e.Subject,
		e.Body,
		e.Status,
		e.ThreadID,
		e.SentAt,
		nullString(e.ClientID),
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		log.Printf("Erro crítico no banco (emails): %v", err)
		return err
	}

	return nil
}

func (r *EmailRepository) FindByID(ctx context.Context, id string) (*entity.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *EmailRepository) FindAll(ctx context.Context) ([]*entity.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// FindFirstInThread: o email mais antigo da thread é o original da conversa
func (r *EmailRepository) FindFirstInThread(ctx context.Context, threadID string) (*entity.Email, error) {
	query := `
		SELECT ` + emailColumns + `
		FROM emails
		WHERE thread_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, threadID))
}

// FindDueForFollowUp é o predicado de vencimento em SQL: enviado antes do
// cutoff e sem nenhum follow-up PENDING ou SENT
func (r *EmailRepository) FindDueForFollowUp(ctx context.Context, cutoff time.Time) ([]*entity.Email, error) {
	query := `
		SELECT ` + emailColumns + `
		FROM emails e
		WHERE e.status = 'SENT'
		  AND e.sent_at <= $1
		  AND NOT EXISTS (
			SELECT 1 FROM follow_ups f
			WHERE f.email_id = e.id
			  AND f.status IN ('PENDING', 'SENT')
		  )
		ORDER BY e.sent_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *EmailRepository) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Email, error) {
	query := `
		SELECT ` + emailColumns + `
		FROM emails
		WHERE status = $1
		ORDER BY sent_at DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *EmailRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE emails
		SET status = 'SENT', sent_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`
	return r.guardedExec(ctx, query, id, sentAt)
}

// MarkReplied só transiciona a partir de SENT — transições são monotônicas
func (r *EmailRepository) MarkReplied(ctx context.Context, id string) error {
	query := `
		UPDATE emails
		SET status = 'REPLIED', updated_at = NOW()
		WHERE id = $1 AND status = 'SENT'
	`
	return r.guardedExec(ctx, query, id)
}

func (r *EmailRepository) MarkFailed(ctx context.Context, id string) error {
	query := `
		UPDATE emails
		SET status = 'FAILED', updated_at = NOW()
		WHERE id = $1 AND status IN ('DRAFT', 'SENT')
	`
	return r.guardedExec(ctx, query, id)
}

func (r *EmailRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM emails WHERE id = $1`, id)
	return err
}

func (r *EmailRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM emails GROUP BY status`)
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

// guardedExec: 0 linhas afetadas numa transição guardada significa que o
// registro não existe ou já avançou — tratamos como no-op, não erro
func (r *EmailRepository) guardedExec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("⏭️ Transição de email ignorada (já avançou ou não existe)")
	}
	return nil
}

func (r *EmailRepository) scanOne(row *sql.Row) (*entity.Email, error) {
	var e entity.Email
	var clientID sql.NullString
	var sentAt sql.NullTime

	err := row.Scan(
		&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.Status,
		&e.ThreadID, &sentAt, &clientID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEmailNotFound
		}
		return nil, err
	}

	if clientID.Valid {
		e.ClientID = clientID.String
	}
	if sentAt.Valid {
		t := sentAt.Time
		e.SentAt = &t
	}
	return &e, nil
}

func (r *EmailRepository) scanMany(rows *sql.Rows) ([]*entity.Email, error) {
	var out []*entity.Email
	for rows.Next() {
		var e entity.Email
		var clientID sql.NullString
		var sentAt sql.NullTime

		err := rows.Scan(
			&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.Status,
			&e.ThreadID, &sentAt, &clientID, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if clientID.Valid {
			e.ClientID = clientID.String
		}
		if sentAt.Valid {
			t := sentAt.Time
			e.SentAt = &t
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
