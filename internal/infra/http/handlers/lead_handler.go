package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/http/middleware"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type LeadHandler struct {
	CaptureLeadUC *usecase.CaptureLeadUseCase
	Logger        *zap.Logger
}

func NewLeadHandler(uc *usecase.CaptureLeadUseCase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{CaptureLeadUC: uc, Logger: logger}
}

// CaptureLead handles POST /leads. Rate limiting is applied by the router.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.CaptureLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.CaptureLeadUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	middleware.RecordLeadCaptured(input.Source, output.NewContact)
	writeJSON(w, http.StatusCreated, output)
}
