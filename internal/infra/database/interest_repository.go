package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type InterestRepository struct {
	DB *sql.DB
}

func NewInterestRepository(db *sql.DB) *InterestRepository {
	return &InterestRepository{DB: db}
}

func (r *InterestRepository) Add(ctx context.Context, contactID, key string, delta int) (int, error) {
	if delta <= 0 {
		delta = 1
	}
	query := `
		INSERT INTO interests (contact_id, interest_key, weight, updated_at)
		VALUES ($1, $2, GREATEST(1, $3::int), NOW())
		ON CONFLICT (contact_id, interest_key)
		DO UPDATE SET
			weight = GREATEST(1, interests.weight + $3::int),
			updated_at = NOW()
		RETURNING weight
	`
	var weight int
	if err := r.DB.QueryRowContext(ctx, query, contactID, key, delta).Scan(&weight); err != nil {
		return 0, fmt.Errorf("add interest: %w", err)
	}
	return weight, nil
}

func (r *InterestRepository) ListByContact(ctx context.Context, contactID string) ([]entity.Interest, error) {
	query := `
		SELECT contact_id, interest_key, weight, updated_at
		FROM interests
		WHERE contact_id = $1
		ORDER BY weight DESC, interest_key ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	var out []entity.Interest
	for rows.Next() {
		var i entity.Interest
		if err := rows.Scan(&i.ContactID, &i.Key, &i.Weight, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *InterestRepository) Top(ctx context.Context, limit int) ([]entity.InterestCount, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT interest_key, COUNT(*), COALESCE(SUM(weight), 0)
		FROM interests
		GROUP BY interest_key
		ORDER BY SUM(weight) DESC, interest_key ASC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top interests: %w", err)
	}
	defer rows.Close()

	var out []entity.InterestCount
	for rows.Next() {
		var c entity.InterestCount
		if err := rows.Scan(&c.Key, &c.Contacts, &c.Weight); err != nil {
			return nil, fmt.Errorf("scan interest count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
