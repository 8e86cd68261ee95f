package usecase

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of a request DTO and converts the
// failures into field errors keyed by json name.
func validateStruct(v any) []ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "input", Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "len":
		return "must have exactly " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}

// ValidateSubmission checks submitted values against a form schema and
// returns the cleaned values restricted to the schema's fields.
func ValidateSubmission(fields []entity.FormField, values map[string]string) (map[string]string, []ValidationError) {
	var errs []ValidationError
	clean := make(map[string]string, len(fields))

	for _, f := range fields {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			if f.IsRequired() {
				errs = append(errs, ValidationError{f.Name, "is required"})
			}
			continue
		}
		if len(v) > 5000 {
			errs = append(errs, ValidationError{f.Name, "must not exceed 5000 characters"})
			continue
		}

		switch f.Type {
		case entity.FieldTypeEmail:
			// Bare addresses only; "Jane <jane@x.com>" must not become a second identity.
			if addr, err := mail.ParseAddress(v); err != nil || addr.Address != v {
				errs = append(errs, ValidationError{f.Name, "is invalid"})
				continue
			}
		case entity.FieldTypePhone:
			if !isValidPhoneNumber(v) {
				errs = append(errs, ValidationError{f.Name, "must be a valid phone number"})
				continue
			}
		case entity.FieldTypeNumber:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				errs = append(errs, ValidationError{f.Name, "must be a number"})
				continue
			}
		case entity.FieldTypeSelect:
			if len(f.Options) > 0 && !contains(f.Options, v) {
				errs = append(errs, ValidationError{f.Name, "must be one of the listed options"})
				continue
			}
		}
		clean[f.Name] = v
	}
	return clean, errs
}

func isValidPhoneNumber(phone string) bool {
	cleaned := strings.TrimPrefix(entity.NormalizePhone(phone), "+")
	return len(cleaned) >= 6 && len(cleaned) <= 15
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
