package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/usecase"
)

type ExportHandler struct {
	ExportUC *usecase.ExportUseCase
	Logger   *zap.Logger
}

func NewExportHandler(uc *usecase.ExportUseCase, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{ExportUC: uc, Logger: logger}
}

// ExportContacts handles GET /admin/export/contacts?format=csv|xlsx&since=YYYY-MM-DD.
func (h *ExportHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = usecase.FormatCSV
	}
	contentType, err := usecase.ContentType(format)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	var since time.Time
	if s := r.URL.Query().Get("since"); s != "" {
		since, err = time.Parse(time.DateOnly, s)
		if err != nil {
			badRequest(w, "since must be YYYY-MM-DD")
			return
		}
	}

	filename := fmt.Sprintf("contacts-%s.%s", time.Now().Format("20060102"), format)
	aw := &attachmentWriter{ResponseWriter: w, contentType: contentType, filename: filename}

	n, err := h.ExportUC.Export(r.Context(), aw, format, since)
	if err != nil {
		if !aw.started {
			writeError(w, r, h.Logger, err)
			return
		}
		// status already sent
		h.Logger.Error("contact export aborted", zap.Int("rows", n), zap.Error(err))
		return
	}
	if !aw.started {
		aw.writeHeaders()
	}
	h.Logger.Info("contacts exported", zap.String("format", format), zap.Int("rows", n))
}

// attachmentWriter sets the download headers on the first write, so an
// export that fails before producing output can still answer with an error.
type attachmentWriter struct {
	http.ResponseWriter
	contentType string
	filename    string
	started     bool
}

func (a *attachmentWriter) writeHeaders() {
	a.started = true
	a.Header().Set("Content-Type", a.contentType)
	a.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
	a.WriteHeader(http.StatusOK)
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.writeHeaders()
	}
	return a.ResponseWriter.Write(p)
}
