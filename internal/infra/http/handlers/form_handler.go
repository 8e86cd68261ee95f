package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/http/middleware"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type FormHandler struct {
	Resolver *usecase.FormSchemaResolver
	SubmitUC *usecase.SubmitFormUseCase
	Logger   *zap.Logger
}

func NewFormHandler(resolver *usecase.FormSchemaResolver, submit *usecase.SubmitFormUseCase, logger *zap.Logger) *FormHandler {
	return &FormHandler{Resolver: resolver, SubmitUC: submit, Logger: logger}
}

type FormSchemaResponse struct {
	Slug   string             `json:"slug"`
	Title  string             `json:"title"`
	Fields []entity.FormField `json:"fields"`
}

// GetSchema handles GET /forms/{slug}?category=&variant=.
func (h *FormHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form, err := h.Resolver.Resolve(r.Context(), chi.URLParam(r, "slug"), q.Get("category"), q.Get("variant"))
	if errors.Is(err, entity.ErrFormNotFound) || (err == nil && form.Status != entity.FormStatusActive) {
		writeError(w, r, h.Logger, &usecase.DomainError{Code: "FORM_NOT_FOUND", Message: "form not found"})
		return
	}
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, FormSchemaResponse{Slug: form.Slug, Title: form.Title, Fields: form.Fields})
}

// Submit handles POST /forms/{slug}/submissions with either a JSON body or a
// classic urlencoded form post.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitFormInput

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			badRequest(w, "Invalid form body")
			return
		}
		input.Values = make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			input.Values[k] = r.PostForm.Get(k)
		}
		input.Category = r.PostForm.Get("_category")
		input.Variant = r.PostForm.Get("_variant")
		input.SourceURL = r.Referer()
	default:
		if !decodeJSON(w, r, &input) {
			return
		}
	}

	input.Slug = chi.URLParam(r, "slug")
	input.IP = middleware.ClientIP(r)
	input.UserAgent = r.UserAgent()

	output, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	middleware.RecordFormSubmission(input.Slug)
	middleware.RecordLeadCaptured("form:"+input.Slug, output.NewContact)
	writeJSON(w, http.StatusCreated, output)
}
