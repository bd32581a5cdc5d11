package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// Gate is the busy token enforcing that at most one analysis flow (direct
// upload or batch) runs at a time.
type Gate struct {
	mu   sync.Mutex
	held bool
}

func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire takes the token if it is free.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return false
	}
	g.held = true
	return true
}

func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
}

// Busy reports whether an analysis currently holds the token.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// PayloadFetcher loads a workspace item's stored payload.
type PayloadFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Runner processes the selected pending workspace items one at a time, in
// listing order. A batch-level stop flag is re-checked before each item;
// stopping additionally cancels in-flight tasks and reverts processing items
// to idle.
type Runner struct {
	analyzer *Analyzer
	ledger   *workspace.Ledger
	registry *Registry
	progress *Tracker
	gate     *Gate
	fetcher  PayloadFetcher
	logger   logger.Logger

	mu      sync.Mutex
	stopped bool
}

func NewRunner(
	analyzer *Analyzer,
	ledger *workspace.Ledger,
	registry *Registry,
	progress *Tracker,
	gate *Gate,
	fetcher PayloadFetcher,
	log logger.Logger,
) *Runner {
	return &Runner{
		analyzer: analyzer,
		ledger:   ledger,
		registry: registry,
		progress: progress,
		gate:     gate,
		fetcher:  fetcher,
		logger:   log,
	}
}

// RunBatch analyzes every selected, not-yet-completed item in listing order.
// No-op when the selection is empty; ErrBusy when another flow holds the
// gate. Per-item failures mark the item and the loop moves on; only the stop
// flag ends the run early. The runner cannot tell "stopped" from "selection
// exhausted" — both paths just release the gate and reset progress.
func (r *Runner) RunBatch(ctx context.Context, filter []string) error {
	if !r.gate.TryAcquire() {
		return ErrBusy
	}
	defer r.gate.Release()

	r.mu.Lock()
	r.stopped = false
	r.mu.Unlock()

	items := r.ledger.SelectedPending()
	if len(items) == 0 {
		return nil
	}

	r.logger.Info("Batch started", logger.Int("items", len(items)))

	for _, item := range items {
		if r.isStopped() {
			break
		}
		r.runItem(ctx, item, filter)
	}

	r.progress.Finish()
	r.logger.Info("Batch finished")
	return nil
}

func (r *Runner) runItem(ctx context.Context, item models.WorkspaceItem, filter []string) {
	// the snapshot may be stale: the item could have completed via a manual
	// trigger while earlier items ran
	current, ok := r.ledger.Get(item.ID)
	if !ok || current.Status == models.StatusCompleted {
		return
	}

	payload, err := r.fetcher.Fetch(ctx, item.StorageKey)
	if err != nil {
		r.logger.Error("Failed to load item payload",
			logger.String("itemId", item.ID),
			logger.Error(err),
		)
		if failErr := r.ledger.Fail(item.ID, "failed to load payload: "+err.Error()); failErr != nil {
			r.logger.Error("Failed to mark item as errored", logger.Error(failErr))
		}
		return
	}

	_, err = r.analyzer.Run(ctx, item.ID, Source{
		Name:     item.Name,
		Data:     payload,
		MIMEType: "application/pdf",
		Filter:   filter,
		ItemID:   item.ID,
	})
	if err != nil && !errors.Is(err, ErrCancelled) {
		// already recorded on the item and in the error state; the batch
		// moves on regardless
		r.logger.Warn("Batch item failed",
			logger.String("itemId", item.ID),
			logger.Error(err),
		)
	}
}

// RunOne analyzes a single workspace item under the gate. ErrBusy when
// another flow holds it; unknown ids are an error.
func (r *Runner) RunOne(ctx context.Context, id string, filter []string) error {
	if !r.gate.TryAcquire() {
		return ErrBusy
	}
	defer r.gate.Release()

	r.mu.Lock()
	r.stopped = false
	r.mu.Unlock()

	item, ok := r.ledger.Get(id)
	if !ok {
		return errors.New("workspace item not found: " + id)
	}

	r.runItem(ctx, item, filter)
	r.progress.Finish()
	return nil
}

// Stop ends the batch: no further items start, every active task is asked to
// abandon its next checkpoint, processing items revert to idle and the
// global progress/error state is cleared.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.registry.CancelAll()
	reverted := r.ledger.ResetProcessing()
	r.progress.Reset()

	r.logger.Info("Stop requested", logger.Int("revertedItems", reverted))
}

func (r *Runner) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Busy reports whether any analysis flow holds the gate.
func (r *Runner) Busy() bool {
	return r.gate.Busy()
}
