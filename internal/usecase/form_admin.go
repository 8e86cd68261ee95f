package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type FormAdmin struct {
	Forms    entity.FormRepositoryInterface
	Variants entity.FormVariantRepositoryInterface
	Logger   *zap.Logger
}

func NewFormAdmin(forms entity.FormRepositoryInterface, variants entity.FormVariantRepositoryInterface, logger *zap.Logger) *FormAdmin {
	return &FormAdmin{Forms: forms, Variants: variants, Logger: logger}
}

func (a *FormAdmin) Create(ctx context.Context, input FormInput) (*entity.Form, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	form, err := entity.NewForm(entity.Slugify(input.Slug), strings.TrimSpace(input.Title), normalizeFields(input.Fields), input.DefaultTags)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_FORM", Message: "form fields must have unique, non-empty names"}
	}
	if input.Status != "" {
		form.Status = input.Status
	}

	err = a.Forms.Create(ctx, form)
	if errors.Is(err, entity.ErrFormSlugTaken) {
		return nil, &DomainError{Code: "FORM_SLUG_TAKEN", Message: "a form with this slug already exists"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to create form", Err: err}
	}
	a.Logger.Info("form created", zap.String("form_id", form.ID), zap.String("slug", form.Slug))
	return form, nil
}

func (a *FormAdmin) Update(ctx context.Context, slug string, input FormInput) (*entity.Form, error) {
	input.Slug = slug
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	form, err := a.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	form.Title = strings.TrimSpace(input.Title)
	form.Fields = normalizeFields(input.Fields)
	form.DefaultTags = input.DefaultTags
	if input.Status != "" {
		form.Status = input.Status
	}
	form.UpdatedAt = time.Now()
	if err := form.Validate(); err != nil {
		return nil, &DomainError{Code: "INVALID_FORM", Message: "form fields must have unique, non-empty names"}
	}

	if err := a.Forms.Update(ctx, form); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to update form", Err: err}
	}
	return form, nil
}

// SaveVariant stores the override list of a variant key, or of a product
// category when category is true.
func (a *FormAdmin) SaveVariant(ctx context.Context, slug, key string, category bool, fields []entity.FormField) (*entity.FormVariant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "variant key is required"}
	}
	form, err := a.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	v := &entity.FormVariant{FormID: form.ID, Key: key, Category: category, Fields: trimFieldNames(fields)}
	if err := a.Variants.Save(ctx, v); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to save variant", Err: err}
	}
	return v, nil
}

func (a *FormAdmin) List(ctx context.Context) ([]*entity.Form, error) {
	forms, err := a.Forms.List(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list forms", Err: err}
	}
	if forms == nil {
		forms = []*entity.Form{}
	}
	return forms, nil
}

func (a *FormAdmin) ListVariants(ctx context.Context, slug string) ([]*entity.FormVariant, error) {
	form, err := a.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	vs, err := a.Variants.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list variants", Err: err}
	}
	return vs, nil
}

func (a *FormAdmin) load(ctx context.Context, slug string) (*entity.Form, error) {
	form, err := a.Forms.FindBySlug(ctx, slug)
	if errors.Is(err, entity.ErrFormNotFound) {
		return nil, &DomainError{Code: "FORM_NOT_FOUND", Message: "form not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load form", Err: err}
	}
	return form, nil
}

// normalizeFields trims names and fills in a default type and order.
func normalizeFields(fields []entity.FormField) []entity.FormField {
	out := make([]entity.FormField, 0, len(fields))
	for i, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Type == "" {
			f.Type = entity.FieldTypeText
		}
		if f.Order == 0 {
			f.Order = i + 1
		}
		out = append(out, f)
	}
	return out
}

// trimFieldNames leaves every other attribute empty so the override only
// replaces what it sets.
func trimFieldNames(fields []entity.FormField) []entity.FormField {
	out := make([]entity.FormField, 0, len(fields))
	for _, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		out = append(out, f)
	}
	return out
}
