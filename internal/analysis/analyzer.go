package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brunomdrs/processo-extractor/internal/aggregate"
	"github.com/brunomdrs/processo-extractor/internal/extract"
	"github.com/brunomdrs/processo-extractor/internal/history"
	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/internal/pdfdoc"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

var (
	// ErrEmptyContent means extraction produced no usable text, so the
	// collaborator was never called.
	ErrEmptyContent = errors.New("document contains no extractable text")

	// ErrCancelled means the task observed a dropped cancellation flag and
	// abandoned its work. Not a failure: no message, no state writes.
	ErrCancelled = errors.New("analysis cancelled")

	// ErrBusy means another analysis holds the single-flight gate.
	ErrBusy = errors.New("another analysis is already running")
)

// Source describes one input to analyze.
type Source struct {
	Name     string
	Data     []byte
	MIMEType string
	// Visual selects the visual-mode collaborator; the payload is sent as-is
	// (downscaled for large images) instead of going through text extraction.
	Visual bool
	Filter []string
	// ItemID links the task to a workspace item; empty for direct uploads.
	ItemID string
}

// ContentExtractor pulls plain text out of a PDF payload, reporting
// per-page progress. Satisfied by pdfdoc.Reader.
type ContentExtractor interface {
	ExtractText(ctx context.Context, data []byte, progress pdfdoc.ProgressFunc) (string, error)
}

// Analyzer runs the full pipeline for one input: extract content, call the
// extraction collaborator, aggregate, persist. Cancellation is re-checked
// after every suspension point; no shared state is written after a failed
// check.
type Analyzer struct {
	pdf       ContentExtractor
	extractor extract.Extractor
	registry  *Registry
	progress  *Tracker
	ledger    *workspace.Ledger
	history   *history.Log
	logger    logger.Logger
}

func NewAnalyzer(
	pdf ContentExtractor,
	extractor extract.Extractor,
	registry *Registry,
	progress *Tracker,
	ledger *workspace.Ledger,
	hist *history.Log,
	log logger.Logger,
) *Analyzer {
	return &Analyzer{
		pdf:       pdf,
		extractor: extractor,
		registry:  registry,
		progress:  progress,
		ledger:    ledger,
		history:   hist,
		logger:    log,
	}
}

// Run executes the pipeline under the given task identifier and returns the
// grouped results. On cancellation it returns ErrCancelled and leaves every
// shared collection untouched. Other failures are recorded in the shared
// error state and, for workspace items, on the item itself.
func (a *Analyzer) Run(ctx context.Context, taskID string, src Source) (*models.GroupedProcesses, error) {
	a.registry.Begin(taskID)
	defer a.registry.Finish(taskID)

	a.progress.StartTask(taskID, src.Name)

	if src.ItemID != "" {
		if err := a.ledger.MarkProcessing(src.ItemID); err != nil {
			a.progress.SetError(err.Error())
			return nil, err
		}
	}

	grouped, err := a.run(ctx, taskID, src)
	switch {
	case errors.Is(err, ErrCancelled):
		// silent no-op abort: reset loading state, touch nothing else
		a.progress.Finish()
		a.logger.Info("Analysis cancelled",
			logger.String("taskId", taskID),
			logger.String("name", src.Name),
		)
		return nil, err
	case err != nil:
		if src.ItemID != "" {
			if failErr := a.ledger.Fail(src.ItemID, err.Error()); failErr != nil {
				a.logger.Error("Failed to mark item as errored", logger.Error(failErr))
			}
		}
		a.progress.SetError(err.Error())
		a.logger.Error("Analysis failed",
			logger.String("taskId", taskID),
			logger.String("name", src.Name),
			logger.Error(err),
		)
		return nil, err
	}

	a.progress.Finish()
	return grouped, nil
}

func (a *Analyzer) run(ctx context.Context, taskID string, src Source) (*models.GroupedProcesses, error) {
	var (
		procs []models.LegalProcess
		err   error
	)

	if src.Visual {
		payload, mimeType, prepErr := extract.PrepareImagePayload(src.Data, src.MIMEType)
		if prepErr != nil {
			return nil, prepErr
		}
		a.progress.StartAnalyzing()
		procs, err = a.extractor.ExtractFromPayload(ctx, payload, mimeType, src.Filter)
	} else {
		text, extractErr := a.pdf.ExtractText(ctx, src.Data, func(current, total int) {
			a.progress.SetExtracting(current, total)
		})
		if extractErr != nil {
			return nil, fmt.Errorf("text extraction failed: %w", extractErr)
		}

		// checkpoint: extraction is a suspension point
		if !a.registry.IsActive(taskID) {
			return nil, ErrCancelled
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyContent
		}

		a.progress.StartAnalyzing()
		procs, err = a.extractor.ExtractFromText(ctx, text, src.Filter)
	}
	// checkpoint: the collaborator call is a suspension point; nothing below
	// may run for an unwanted task, its failure included
	if !a.registry.IsActive(taskID) {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	grouped := aggregate.Group(procs)

	if src.ItemID != "" {
		if err := a.ledger.Complete(src.ItemID, grouped); err != nil {
			return nil, err
		}
	}

	entry := models.HistoryEntry{
		ID:        uuid.New().String(),
		Name:      historyName(src.Name, src.Filter),
		Timestamp: time.Now(),
		Results:   grouped,
	}
	if err := a.history.Append(ctx, entry); err != nil {
		a.logger.Error("Failed to persist history entry", logger.Error(err))
	}

	a.logger.Info("Analysis completed",
		logger.String("taskId", taskID),
		logger.String("name", src.Name),
		logger.Int("foros", grouped.Len()),
		logger.Int("processos", grouped.TotalProcessos()),
	)
	return grouped, nil
}

func historyName(name string, filter []string) string {
	if len(filter) > 0 {
		return name + " (filtered)"
	}
	return name
}
