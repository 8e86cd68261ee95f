package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, contact_id, name, email, phone, message, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		nullString(lead.ContactID),
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Message,
		lead.Source,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) List(ctx context.Context, limit, offset int) ([]*entity.Lead, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `
		SELECT id, contact_id, name, email, phone, message, source, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var (
			l         entity.Lead
			contactID sql.NullString
		)
		if err := rows.Scan(&l.ID, &contactID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.Source, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		l.ContactID = contactID.String
		leads = append(leads, &l)
	}
	return leads, total, rows.Err()
}
