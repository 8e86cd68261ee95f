package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypePhone    = "tel"
	FieldTypeNumber   = "number"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeHidden   = "hidden"

	FormStatusActive   = "active"
	FormStatusDisabled = "disabled"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrFormSlugTaken   = errors.New("form slug already exists")
	ErrFormInvalid     = errors.New("form definition is invalid")
	ErrVariantNotFound = errors.New("form variant not found")
)

// FormField is one entry of a form schema, keyed by Name.
type FormField struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Required    *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Order       int      `json:"order,omitempty" yaml:"order,omitempty"`
}

func (f FormField) IsRequired() bool {
	return f.Required != nil && *f.Required
}

type Form struct {
	ID          string      `json:"id"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Fields      []FormField `json:"fields"`
	DefaultTags []string    `json:"default_tags,omitempty"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewForm(slug, title string, fields []FormField, tags []string) (*Form, error) {
	f := &Form{
		ID:          uuid.New().String(),
		Slug:        slug,
		Title:       title,
		Fields:      fields,
		DefaultTags: tags,
		Status:      FormStatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Form) Validate() error {
	if f.Slug == "" || f.Title == "" {
		return ErrFormInvalid
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for _, field := range f.Fields {
		if field.Name == "" {
			return ErrFormInvalid
		}
		if _, dup := seen[field.Name]; dup {
			return ErrFormInvalid
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// FormVariant overrides a form's fields for a variant key (locale, A/B arm) or a
// product category.
type FormVariant struct {
	FormID    string      `json:"form_id"`
	Key       string      `json:"key"`
	Category  bool        `json:"category"`
	Fields    []FormField `json:"fields"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type FormRepositoryInterface interface {
	Create(ctx context.Context, f *Form) error
	Update(ctx context.Context, f *Form) error
	FindBySlug(ctx context.Context, slug string) (*Form, error)
	FindByID(ctx context.Context, id string) (*Form, error)
	List(ctx context.Context) ([]*Form, error)
}

type FormVariantRepositoryInterface interface {
	Save(ctx context.Context, v *FormVariant) error
	Find(ctx context.Context, formID, key string, category bool) (*FormVariant, error)
	ListByForm(ctx context.Context, formID string) ([]*FormVariant, error)
}
