package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/export"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// downloadExcel streams the rows of kind selected by ?type=&value= as an
// xlsx workbook.
func downloadExcel(kind domain.Kind, svc *service.ExportService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sheet, err := svc.Sheet(kind, q.Get("type"), q.Get("value"))
		if err != nil {
			metrics.ObserveExport(kind.String(), "rejected")
			writeError(w, logger, kind, err)
			return
		}

		// Rendered up front so a failure still gets a JSON error.
		var buf bytes.Buffer
		if err := export.WriteWorkbook(&buf, sheet.Name, sheet.Header, sheet.Rows); err != nil {
			metrics.ObserveExport(kind.String(), "error")
			writeError(w, logger, kind, err)
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ToLower(sheet.Name)+`.xlsx"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("failed to stream workbook", slog.String("kind", kind.String()), slog.String("error", err.Error()))
			return
		}
		metrics.ObserveExport(kind.String(), "ok")
		logger.Info("workbook exported",
			slog.String("kind", kind.String()),
			slog.String("type", q.Get("type")),
			slog.Int("rows", len(sheet.Rows)),
		)
	}
}
