package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type SubmissionRepository struct {
	DB *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *entity.FormSubmission) error {
	payload, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	query := `
		INSERT INTO form_submissions (id, form_id, contact_id, payload, source_url, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.DB.ExecContext(ctx, query, s.ID, s.FormID, s.ContactID, payload, s.SourceURL, s.IP, s.UserAgent, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) ListByContact(ctx context.Context, contactID string) ([]*entity.FormSubmission, error) {
	query := `
		SELECT id, form_id, contact_id, payload, source_url, ip, user_agent, created_at
		FROM form_submissions
		WHERE contact_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*entity.FormSubmission
	for rows.Next() {
		var (
			s   entity.FormSubmission
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.FormID, &s.ContactID, &raw, &s.SourceURL, &s.IP, &s.UserAgent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if err := json.Unmarshal(raw, &s.Values); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
