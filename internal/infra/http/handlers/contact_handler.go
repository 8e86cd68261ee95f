package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type ContactHandler struct {
	Admin  *usecase.ContactAdmin
	Logger *zap.Logger
}

func NewContactHandler(admin *usecase.ContactAdmin, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{Admin: admin, Logger: logger}
}

// List handles GET /admin/contacts?search=&status=&stage=&since=&limit=&offset=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.ContactFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Stage:  q.Get("stage"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if s := q.Get("since"); s != "" {
		since, err := time.Parse(time.DateOnly, s)
		if err != nil {
			badRequest(w, "since must be YYYY-MM-DD")
			return
		}
		f.Since = &since
	}

	page, err := h.Admin.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Admin.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Stage  string `json:"stage"`
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Admin.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Stage); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AddTagRequest struct {
	Name string `json:"name"`
}

func (h *ContactHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req AddTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.Admin.AddTag(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *ContactHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.RemoveTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type LeadPage struct {
	Leads  []*entity.Lead `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListLeads handles GET /admin/leads.
func (h *ContactHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryInt(r, "limit", 20), queryInt(r, "offset", 0)
	leads, total, err := h.Admin.ListLeads(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LeadPage{Leads: leads, Total: total, Limit: limit, Offset: offset})
}
