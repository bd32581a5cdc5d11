package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunomdrs/processo-extractor/internal/analysis"
	"github.com/brunomdrs/processo-extractor/internal/export"
	"github.com/brunomdrs/processo-extractor/internal/history"
	"github.com/brunomdrs/processo-extractor/internal/utils/validator"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

type Handlers struct {
	Analysis  *AnalysisHandler
	Workspace *WorkspaceHandler
	History   *HistoryHandler
}

func NewHandlers(
	analyzer *analysis.Analyzer,
	runner *analysis.Runner,
	gate *analysis.Gate,
	progress *analysis.Tracker,
	workspaceService *workspace.Service,
	ledger *workspace.Ledger,
	hist *history.Log,
	exp *export.Service,
	val *validator.UploadValidator,
	defaultPagesPerPart int,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Analysis:  NewAnalysisHandler(analyzer, gate, progress, val, log),
		Workspace: NewWorkspaceHandler(workspaceService, ledger, runner, val, defaultPagesPerPart, log),
		History:   NewHistoryHandler(hist, exp, log),
	}
}

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

func handleError(c *gin.Context, log logger.Logger, status int, message string, err error) {
	log.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
