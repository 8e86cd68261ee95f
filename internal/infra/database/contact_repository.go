package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/woo-crm/internal/entity"
)

const contactColumns = `id, email, phone, first_name, last_name, status, stage, source, created_at, updated_at`

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var (
		c            entity.Contact
		email, phone sql.NullString
	)
	err := row.Scan(&c.ID, &email, &phone, &c.FirstName, &c.LastName, &c.Status, &c.Stage, &c.Source, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	return &c, nil
}

func (r *ContactRepository) findOne(ctx context.Context, where string, arg any) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + where + ` ORDER BY created_at ASC LIMIT 1`
	c, err := scanContact(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	return r.findOne(ctx, "email = $1", entity.NormalizeEmail(email))
}

func (r *ContactRepository) FindByPhone(ctx context.Context, phone string) (*entity.Contact, error) {
	return r.findOne(ctx, "phone = $1", entity.NormalizePhone(phone))
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		nullString(c.Email),
		nullString(c.Phone),
		c.FirstName,
		c.LastName,
		c.Status,
		c.Stage,
		c.Source,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateContact
		}
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET email = $2, phone = $3, first_name = $4, last_name = $5, source = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.ID,
		nullString(c.Email),
		nullString(c.Phone),
		c.FirstName,
		c.LastName,
		c.Source,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrContactNotFound
	}
	return nil
}

var errDuplicateContact = errors.New("contact email already exists")

// UpsertByEmailOrPhone matches an existing contact by email, then by phone.
// A match is updated in place and c receives the stored row; otherwise c is
// inserted. The boolean reports whether a new row was created.
func (r *ContactRepository) UpsertByEmailOrPhone(ctx context.Context, c *entity.Contact) (bool, error) {
	c.Email = entity.NormalizeEmail(c.Email)
	c.Phone = entity.NormalizePhone(c.Phone)
	if c.Email == "" && c.Phone == "" {
		return false, entity.ErrMissingIdentity
	}

	existing, err := r.match(ctx, c)
	if err != nil && !errors.Is(err, entity.ErrContactNotFound) {
		return false, err
	}

	if existing == nil {
		err = r.Create(ctx, c)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, errDuplicateContact) {
			return false, err
		}
		// lost an insert race on the email index
		existing, err = r.FindByEmail(ctx, c.Email)
		if err != nil {
			return false, err
		}
	}

	existing.Merge(c)
	if err := r.Update(ctx, existing); err != nil {
		return false, err
	}
	*c = *existing
	return false, nil
}

func (r *ContactRepository) match(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	if c.Email != "" {
		found, err := r.FindByEmail(ctx, c.Email)
		if err == nil || !errors.Is(err, entity.ErrContactNotFound) {
			return found, err
		}
	}
	if c.Phone != "" {
		return r.FindByPhone(ctx, c.Phone)
	}
	return nil, entity.ErrContactNotFound
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id, status, stage string) error {
	query := `
		UPDATE contacts
		SET status = COALESCE(NULLIF($2, ''), status),
			stage = COALESCE(NULLIF($3, ''), stage),
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, status, stage)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, f entity.ContactFilter) ([]*entity.Contact, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		add("(email ILIKE $%[1]d OR phone ILIKE $%[1]d OR first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Stage != "" {
		add("stage = $%d", f.Stage)
	}
	if f.Since != nil {
		add("created_at >= $%d", *f.Since)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM contacts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

// Each walks every contact created at or after since, oldest first. Used by
// exports so large tables are never held in memory.
func (r *ContactRepository) Each(ctx context.Context, since time.Time, fn func(*entity.Contact) error) error {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE created_at >= $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return fmt.Errorf("iterate contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return fmt.Errorf("scan contact: %w", err)
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM contact_tag_map WHERE contact_id = $1`,
		`DELETE FROM interests WHERE contact_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete contact relations: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrContactNotFound
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
