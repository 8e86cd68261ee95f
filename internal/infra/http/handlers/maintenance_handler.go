package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/http/middleware"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

// MaintenanceHandler exposes the admin operations also available from crmctl.
type MaintenanceHandler struct {
	StatsUC     *usecase.StatsUseCase
	RetentionUC *usecase.RetentionUseCase
	Quotes      *usecase.QuoteService
	Logger      *zap.Logger
}

func NewMaintenanceHandler(stats *usecase.StatsUseCase, retention *usecase.RetentionUseCase, quotes *usecase.QuoteService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{StatsUC: stats, RetentionUC: retention, Quotes: quotes, Logger: logger}
}

// Stats handles GET /admin/stats?days=.
func (h *MaintenanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsUC.Execute(r.Context(), time.Now(), queryInt(r, "days", 7))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RunRetention handles POST /admin/retention.
func (h *MaintenanceHandler) RunRetention(w http.ResponseWriter, r *http.Request) {
	result, err := h.RetentionUC.Cleanup(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordRetention(result.Deleted)
	writeJSON(w, http.StatusOK, result)
}

// FlushCache handles DELETE /admin/cache.
func (h *MaintenanceHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.Quotes.Flush(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, &usecase.TechnicalError{Code: "CACHE_ERROR", Message: "cache flush failed", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
