package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/woo-crm/internal/entity"
)

// MergeFields overlays override onto base by field name. Matching base fields
// keep their position and take every non-empty attribute of the override;
// override-only fields are appended in override order. Neither input is
// modified.
func MergeFields(base, override []entity.FormField) []entity.FormField {
	merged := make([]entity.FormField, 0, len(base)+len(override))
	index := make(map[string]int, len(base)+len(override))

	for _, f := range base {
		if f.Name != "" {
			if i, ok := index[f.Name]; ok {
				merged[i] = overlay(merged[i], f)
				continue
			}
			index[f.Name] = len(merged)
		}
		merged = append(merged, cloneField(f))
	}

	for _, f := range override {
		if f.Name == "" {
			continue
		}
		if i, ok := index[f.Name]; ok {
			merged[i] = overlay(merged[i], f)
			continue
		}
		index[f.Name] = len(merged)
		merged = append(merged, cloneField(f))
	}
	return merged
}

func overlay(dst, src entity.FormField) entity.FormField {
	if src.Label != "" {
		dst.Label = src.Label
	}
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Required != nil {
		r := *src.Required
		dst.Required = &r
	}
	if src.Placeholder != "" {
		dst.Placeholder = src.Placeholder
	}
	if src.Options != nil {
		dst.Options = append([]string(nil), src.Options...)
	}
	if src.Order != 0 {
		dst.Order = src.Order
	}
	return dst
}

func cloneField(f entity.FormField) entity.FormField {
	if f.Required != nil {
		r := *f.Required
		f.Required = &r
	}
	if f.Options != nil {
		f.Options = append([]string(nil), f.Options...)
	}
	return f
}

// FormSchemaResolver builds the effective field list of a form: the base
// schema, then the product-category override, then the variant override.
type FormSchemaResolver struct {
	Forms    entity.FormRepositoryInterface
	Variants entity.FormVariantRepositoryInterface
}

func NewFormSchemaResolver(forms entity.FormRepositoryInterface, variants entity.FormVariantRepositoryInterface) *FormSchemaResolver {
	return &FormSchemaResolver{Forms: forms, Variants: variants}
}

func (r *FormSchemaResolver) Resolve(ctx context.Context, slug, category, variant string) (*entity.Form, error) {
	form, err := r.Forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	fields := form.Fields
	layers := []struct {
		key      string
		category bool
	}{
		{category, true},
		{variant, false},
	}
	for _, l := range layers {
		if l.key == "" || r.Variants == nil {
			continue
		}
		v, err := r.Variants.Find(ctx, form.ID, l.key, l.category)
		if errors.Is(err, entity.ErrVariantNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		fields = MergeFields(fields, v.Fields)
	}

	resolved := *form
	resolved.Fields = MergeFields(fields, nil)
	return &resolved, nil
}
