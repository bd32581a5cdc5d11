package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunomdrs/processo-extractor/internal/export"
	"github.com/brunomdrs/processo-extractor/internal/history"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler serves the durable history log and its export formats.
type HistoryHandler struct {
	log    *history.Log
	export *export.Service
	logger logger.Logger
}

func NewHistoryHandler(hist *history.Log, exp *export.Service, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{log: hist, export: exp, logger: log}
}

// List returns the history entries, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.log.Entries()})
}

// Clear removes every entry.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.log.Clear(c.Request.Context()); err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to clear history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// Export renders one history entry in the requested format.
func (h *HistoryHandler) Export(c *gin.Context) {
	entry, ok := h.log.Get(c.Param("id"))
	if !ok {
		handleError(c, h.logger, http.StatusNotFound, "History entry not found", nil)
		return
	}

	report := export.Report{
		Name:      entry.Name,
		Timestamp: entry.Timestamp,
		Results:   entry.Results,
	}
	h.render(c, report, c.DefaultQuery("format", "txt"))
}

type consolidatedRequest struct {
	Venues []string `json:"venues"`
	Format string   `json:"format"`
}

// ExportConsolidated merges every history entry into one report, optionally
// restricted to a venue set.
func (h *HistoryHandler) ExportConsolidated(c *gin.Context) {
	var req consolidatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	report := h.export.Consolidate(h.log.Entries(), req.Venues)
	format := req.Format
	if format == "" {
		format = "txt"
	}
	h.render(c, report, format)
}

func (h *HistoryHandler) render(c *gin.Context, report export.Report, format string) {
	var (
		data []byte
		mime string
		ext  string
		err  error
	)
	switch format {
	case "txt":
		data, mime, ext = h.export.TXT(report), "text/plain; charset=utf-8", "txt"
	case "pdf":
		data, err = h.export.PDF(report)
		mime, ext = "application/pdf", "pdf"
	case "xlsx":
		data, err = h.export.XLSX(report)
		mime, ext = xlsxMIME, "xlsx"
	default:
		handleError(c, h.logger, http.StatusBadRequest, "Unsupported export format: "+format, nil)
		return
	}
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to render export", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Name+"."+ext))
	c.Data(http.StatusOK, mime, data)
}
