package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/woo-crm/internal/entity"
)

const formColumns = `id, slug, title, schema, default_tags, status, created_at, updated_at`

// FormRepository stores the field list as a JSON blob and mirrors it into
// form_fields and form_field_options for reporting queries.
type FormRepository struct {
	DB *sql.DB
}

func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{DB: db}
}

func scanForm(row rowScanner) (*entity.Form, error) {
	var (
		f      entity.Form
		schema []byte
		tags   pq.StringArray
	)
	if err := row.Scan(&f.ID, &f.Slug, &f.Title, &schema, &tags, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(schema, &f.Fields); err != nil {
		return nil, fmt.Errorf("decode form schema: %w", err)
	}
	f.DefaultTags = []string(tags)
	return &f, nil
}

func (r *FormRepository) Create(ctx context.Context, f *entity.Form) error {
	schema, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("encode form schema: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO forms (` + formColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctx, query, f.ID, f.Slug, f.Title, schema, pq.Array(f.DefaultTags), f.Status, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrFormSlugTaken
		}
		return fmt.Errorf("create form: %w", err)
	}
	if err := syncFields(ctx, tx, f); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *FormRepository) Update(ctx context.Context, f *entity.Form) error {
	schema, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("encode form schema: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE forms
		SET title = $2, schema = $3, default_tags = $4, status = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query, f.ID, f.Title, schema, pq.Array(f.DefaultTags), f.Status, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFormNotFound
	}
	if err := syncFields(ctx, tx, f); err != nil {
		return err
	}
	return tx.Commit()
}

func syncFields(ctx context.Context, tx *sql.Tx, f *entity.Form) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM form_field_options WHERE form_id = $1`, f.ID); err != nil {
		return fmt.Errorf("clear field options: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM form_fields WHERE form_id = $1`, f.ID); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}

	for i, field := range f.Fields {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO form_fields (form_id, name, label, type, required, placeholder, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.ID, field.Name, field.Label, fieldType(field), field.IsRequired(), field.Placeholder, i,
		)
		if err != nil {
			return fmt.Errorf("insert field %s: %w", field.Name, err)
		}
		for j, opt := range field.Options {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO form_field_options (form_id, field_name, value, position)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT DO NOTHING`,
				f.ID, field.Name, opt, j,
			)
			if err != nil {
				return fmt.Errorf("insert option for %s: %w", field.Name, err)
			}
		}
	}
	return nil
}

func fieldType(f entity.FormField) string {
	if f.Type == "" {
		return entity.FieldTypeText
	}
	return f.Type
}

func (r *FormRepository) find(ctx context.Context, where string, arg any) (*entity.Form, error) {
	f, err := scanForm(r.DB.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}
	return f, nil
}

func (r *FormRepository) FindBySlug(ctx context.Context, slug string) (*entity.Form, error) {
	return r.find(ctx, "slug = $1", slug)
}

func (r *FormRepository) FindByID(ctx context.Context, id string) (*entity.Form, error) {
	return r.find(ctx, "id = $1", id)
}

func (r *FormRepository) List(ctx context.Context) ([]*entity.Form, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+formColumns+` FROM forms ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var forms []*entity.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

type FormVariantRepository struct {
	DB *sql.DB
}

func NewFormVariantRepository(db *sql.DB) *FormVariantRepository {
	return &FormVariantRepository{DB: db}
}

func (r *FormVariantRepository) Save(ctx context.Context, v *entity.FormVariant) error {
	fields, err := json.Marshal(v.Fields)
	if err != nil {
		return fmt.Errorf("encode variant fields: %w", err)
	}
	query := `
		INSERT INTO form_variants (form_id, variant_key, is_category, fields, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (form_id, variant_key, is_category)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.DB.QueryRowContext(ctx, query, v.FormID, v.Key, v.Category, fields).Scan(&v.UpdatedAt); err != nil {
		return fmt.Errorf("save form variant: %w", err)
	}
	return nil
}

func (r *FormVariantRepository) Find(ctx context.Context, formID, key string, category bool) (*entity.FormVariant, error) {
	query := `
		SELECT form_id, variant_key, is_category, fields, updated_at
		FROM form_variants
		WHERE form_id = $1 AND variant_key = $2 AND is_category = $3
	`
	v, err := scanVariant(r.DB.QueryRowContext(ctx, query, formID, key, category))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrVariantNotFound
	}
	return v, err
}

func (r *FormVariantRepository) ListByForm(ctx context.Context, formID string) ([]*entity.FormVariant, error) {
	query := `
		SELECT form_id, variant_key, is_category, fields, updated_at
		FROM form_variants
		WHERE form_id = $1
		ORDER BY is_category DESC, variant_key ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("list form variants: %w", err)
	}
	defer rows.Close()

	var out []*entity.FormVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVariant(row rowScanner) (*entity.FormVariant, error) {
	var (
		v   entity.FormVariant
		raw []byte
	)
	if err := row.Scan(&v.FormID, &v.Key, &v.Category, &raw, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &v.Fields); err != nil {
		return nil, fmt.Errorf("decode variant fields: %w", err)
	}
	return &v, nil
}
