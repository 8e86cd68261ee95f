package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/http/middleware"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type ShippingHandler struct {
	Quotes *usecase.QuoteService
	Logger *zap.Logger
}

func NewShippingHandler(quotes *usecase.QuoteService, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{Quotes: quotes, Logger: logger}
}

// Quote handles POST /shipping/quote.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var pkg entity.Package
	if !decodeJSON(w, r, &pkg) {
		return
	}
	result, err := h.Quotes.Quote(r.Context(), pkg)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordQuoteCache(result.Cached)
	writeJSON(w, http.StatusOK, result)
}

type CarrierInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Carriers handles GET /shipping/carriers.
func (h *ShippingHandler) Carriers(w http.ResponseWriter, r *http.Request) {
	all := h.Quotes.Carriers.All()
	out := make([]CarrierInfo, 0, len(all))
	for _, c := range all {
		out = append(out, CarrierInfo{ID: c.ID(), Name: c.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}
