package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brunomdrs/processo-extractor/internal/analysis"
	"github.com/brunomdrs/processo-extractor/internal/extract"
	"github.com/brunomdrs/processo-extractor/internal/utils/validator"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// AnalysisHandler serves the direct-upload flow: one document analyzed
// immediately, without going through the workspace.
type AnalysisHandler struct {
	analyzer  *analysis.Analyzer
	gate      *analysis.Gate
	progress  *analysis.Tracker
	validator *validator.UploadValidator
	logger    logger.Logger
}

func NewAnalysisHandler(analyzer *analysis.Analyzer, gate *analysis.Gate, progress *analysis.Tracker, val *validator.UploadValidator, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:  analyzer,
		gate:      gate,
		progress:  progress,
		validator: val,
		logger:    log,
	}
}

// Analyze runs the text-mode pipeline on an uploaded PDF.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	h.start(c, false)
}

// AnalyzeVisual sends the upload to the visual-mode collaborator instead of
// extracting text first.
func (h *AnalysisHandler) AnalyzeVisual(c *gin.Context) {
	h.start(c, true)
}

func (h *AnalysisHandler) start(c *gin.Context, visual bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	info, err := h.validator.Validate(header)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Upload rejected", err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	filter := extract.ParseFilter(c.PostForm("filter"))

	// direct upload and batch share the single-flight gate; the token is
	// released by the goroutine when the analysis resolves
	if !h.gate.TryAcquire() {
		handleError(c, h.logger, http.StatusConflict, "Another analysis is already running", analysis.ErrBusy)
		return
	}

	taskID := uuid.New().String()
	src := analysis.Source{
		Name:     header.Filename,
		Data:     data,
		MIMEType: info.MimeType,
		Visual:   visual,
		Filter:   filter,
	}

	go func() {
		defer h.gate.Release()
		if _, err := h.analyzer.Run(context.Background(), taskID, src); err != nil {
			h.logger.Warn("Direct analysis did not complete",
				logger.String("taskId", taskID),
				logger.Error(err),
			)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"taskId":   taskID,
		"status":   "processing",
		"filename": header.Filename,
	})
}

// Progress returns the global progress/error snapshot.
func (h *AnalysisHandler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.progress.Snapshot())
}
