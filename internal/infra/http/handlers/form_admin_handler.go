package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type FormAdminHandler struct {
	Admin  *usecase.FormAdmin
	Logger *zap.Logger
}

func NewFormAdminHandler(admin *usecase.FormAdmin, logger *zap.Logger) *FormAdminHandler {
	return &FormAdminHandler{Admin: admin, Logger: logger}
}

func (h *FormAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.Admin.List(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *FormAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.FormInput
	if !decodeJSON(w, r, &input) {
		return
	}
	form, err := h.Admin.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *FormAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.FormInput
	if !decodeJSON(w, r, &input) {
		return
	}
	form, err := h.Admin.Update(r.Context(), chi.URLParam(r, "slug"), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

type VariantRequest struct {
	Fields []entity.FormField `json:"fields"`
}

// SaveVariant handles PUT /admin/forms/{slug}/variants/{key}. With
// ?category=true the key names a product category.
func (h *FormAdminHandler) SaveVariant(w http.ResponseWriter, r *http.Request) {
	var req VariantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category := r.URL.Query().Get("category") == "true"
	v, err := h.Admin.SaveVariant(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "key"), category, req.Fields)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *FormAdminHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Admin.ListVariants(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if vs == nil {
		vs = []*entity.FormVariant{}
	}
	writeJSON(w, http.StatusOK, vs)
}
