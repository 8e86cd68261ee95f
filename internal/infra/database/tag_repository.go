package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type TagRepository struct {
	DB *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// Ensure returns the tag with the slug of name, creating it when missing.
func (r *TagRepository) Ensure(ctx context.Context, name string) (*entity.Tag, error) {
	slug := entity.Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("tag name %q has no usable characters", name)
	}
	query := `
		INSERT INTO tags (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug
	`
	var t entity.Tag
	if err := r.DB.QueryRowContext(ctx, query, uuid.New().String(), name, slug).Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, fmt.Errorf("ensure tag: %w", err)
	}
	return &t, nil
}

func (r *TagRepository) Assign(ctx context.Context, contactID, tagID string) error {
	query := `
		INSERT INTO contact_tag_map (contact_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, query, contactID, tagID); err != nil {
		return fmt.Errorf("assign tag: %w", err)
	}
	return nil
}

func (r *TagRepository) Unassign(ctx context.Context, contactID, tagID string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM contact_tag_map WHERE contact_id = $1 AND tag_id = $2`, contactID, tagID); err != nil {
		return fmt.Errorf("unassign tag: %w", err)
	}
	return nil
}

func (r *TagRepository) ListByContact(ctx context.Context, contactID string) ([]entity.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN contact_tag_map m ON m.tag_id = t.id
		WHERE m.contact_id = $1
		ORDER BY t.name ASC
	`
	return r.query(ctx, query, contactID)
}

func (r *TagRepository) List(ctx context.Context) ([]entity.Tag, error) {
	return r.query(ctx, `SELECT id, name, slug FROM tags ORDER BY name ASC`)
}

func (r *TagRepository) query(ctx context.Context, query string, args ...any) ([]entity.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
