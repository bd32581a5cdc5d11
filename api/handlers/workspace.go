package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunomdrs/processo-extractor/internal/analysis"
	"github.com/brunomdrs/processo-extractor/internal/extract"
	"github.com/brunomdrs/processo-extractor/internal/utils/validator"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// WorkspaceHandler serves the split/select/batch flow.
type WorkspaceHandler struct {
	service             *workspace.Service
	ledger              *workspace.Ledger
	runner              *analysis.Runner
	validator           *validator.UploadValidator
	logger              logger.Logger
	defaultPagesPerPart int
}

func NewWorkspaceHandler(service *workspace.Service, ledger *workspace.Ledger, runner *analysis.Runner, val *validator.UploadValidator, defaultPagesPerPart int, log logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		service:             service,
		ledger:              ledger,
		runner:              runner,
		validator:           val,
		logger:              log,
		defaultPagesPerPart: defaultPagesPerPart,
	}
}

type splitRequest struct {
	PagesPerPart int `form:"pagesPerPart"`
}

// Split cuts an uploaded PDF into page-range parts and registers them as
// workspace items.
func (h *WorkspaceHandler) Split(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	if _, err := h.validator.Validate(header); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Upload rejected", err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	var req splitRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	pagesPerPart := req.PagesPerPart
	if pagesPerPart <= 0 {
		pagesPerPart = h.defaultPagesPerPart
	}

	items, err := h.service.Split(c.Request.Context(), header.Filename, data, pagesPerPart)
	if err != nil {
		handleError(c, h.logger, http.StatusUnprocessableEntity, "Failed to split document", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Document split into %d parts", len(items)),
		"items":   items,
	})
}

// List returns the workspace items in listing order.
func (h *WorkspaceHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.ledger.Items()})
}

// ToggleSelect flips one pending item's selection.
func (h *WorkspaceHandler) ToggleSelect(c *gin.Context) {
	item, err := h.ledger.ToggleSelect(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, http.StatusNotFound, "Workspace item not found", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ToggleSelectAll flips the selection of the whole pending subset.
func (h *WorkspaceHandler) ToggleSelectAll(c *gin.Context) {
	h.ledger.ToggleSelectAllPending()
	c.JSON(http.StatusOK, gin.H{"items": h.ledger.Items()})
}

type batchRequest struct {
	Filter string `json:"filter"`
}

// AnalyzeOne runs one workspace item through the pipeline.
func (h *WorkspaceHandler) AnalyzeOne(c *gin.Context) {
	id := c.Param("id")
	var req batchRequest
	_ = c.ShouldBindJSON(&req)
	filter := extract.ParseFilter(req.Filter)

	if _, ok := h.ledger.Get(id); !ok {
		handleError(c, h.logger, http.StatusNotFound, "Workspace item not found", nil)
		return
	}

	go func() {
		if err := h.runner.RunOne(context.Background(), id, filter); err != nil && !errors.Is(err, analysis.ErrBusy) {
			h.logger.Warn("Item analysis did not complete",
				logger.String("itemId", id),
				logger.Error(err),
			)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"itemId": id, "status": "processing"})
}

// AnalyzeBatch starts the sequential batch over the selected items.
func (h *WorkspaceHandler) AnalyzeBatch(c *gin.Context) {
	var req batchRequest
	_ = c.ShouldBindJSON(&req)
	filter := extract.ParseFilter(req.Filter)

	if h.runner.Busy() {
		handleError(c, h.logger, http.StatusConflict, "Another analysis is already running", analysis.ErrBusy)
		return
	}

	go func() {
		if err := h.runner.RunBatch(context.Background(), filter); err != nil && !errors.Is(err, analysis.ErrBusy) {
			h.logger.Warn("Batch did not complete", logger.Error(err))
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}

// Stop ends the running batch and cancels in-flight tasks.
func (h *WorkspaceHandler) Stop(c *gin.Context) {
	h.runner.Stop()
	c.JSON(http.StatusOK, gin.H{"message": "Analysis stopped"})
}

// Download returns a split part's stored PDF payload.
func (h *WorkspaceHandler) Download(c *gin.Context) {
	name, data, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, http.StatusNotFound, "Failed to load part payload", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
