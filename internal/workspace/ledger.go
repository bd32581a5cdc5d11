// Package workspace owns the worklist of split document parts. All status,
// selection and result mutations go through the Ledger so readers never see
// a torn state: a completed item always carries results, an errored item
// never does.
package workspace

import (
	"fmt"
	"sync"

	"github.com/brunomdrs/processo-extractor/internal/models"
)

type Ledger struct {
	mu    sync.RWMutex
	items []*models.WorkspaceItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends items to the end of the listing, in the given order.
func (l *Ledger) Add(items ...models.WorkspaceItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range items {
		item := items[i]
		l.items = append(l.items, &item)
	}
}

// Items returns a snapshot of every item in listing order.
func (l *Ledger) Items() []models.WorkspaceItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.WorkspaceItem, len(l.items))
	for i, item := range l.items {
		out[i] = *item
	}
	return out
}

// Get returns a snapshot of one item.
func (l *Ledger) Get(id string) (models.WorkspaceItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if item := l.find(id); item != nil {
		return *item, true
	}
	return models.WorkspaceItem{}, false
}

// ToggleSelect flips an item's selection. Completed items stay unselected,
// toggling them is a no-op.
func (l *Ledger) ToggleSelect(id string) (models.WorkspaceItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.find(id)
	if item == nil {
		return models.WorkspaceItem{}, fmt.Errorf("workspace item not found: %s", id)
	}
	if item.Status != models.StatusCompleted {
		item.Selected = !item.Selected
	}
	return *item, nil
}

// ToggleSelectAllPending selects every non-completed item unless all of them
// are already selected, in which case it deselects them. Completed items are
// forced to unselected either way.
func (l *Ledger) ToggleSelectAllPending() {
	l.mu.Lock()
	defer l.mu.Unlock()

	allSelected := true
	for _, item := range l.items {
		if item.Status != models.StatusCompleted && !item.Selected {
			allSelected = false
			break
		}
	}
	for _, item := range l.items {
		if item.Status == models.StatusCompleted {
			item.Selected = false
			continue
		}
		item.Selected = !allSelected
	}
}

// SelectedPending returns, in listing order, the items a batch run would
// process: selected and not yet completed.
func (l *Ledger) SelectedPending() []models.WorkspaceItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.WorkspaceItem
	for _, item := range l.items {
		if item.Selected && item.Status != models.StatusCompleted {
			out = append(out, *item)
		}
	}
	return out
}

// MarkProcessing moves an item to processing. Refused for completed items.
func (l *Ledger) MarkProcessing(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.find(id)
	if item == nil {
		return fmt.Errorf("workspace item not found: %s", id)
	}
	if item.Status == models.StatusCompleted {
		return fmt.Errorf("workspace item already completed: %s", id)
	}
	item.Status = models.StatusProcessing
	item.Error = ""
	return nil
}

// Complete records a successful analysis. The item leaves the selectable set.
func (l *Ledger) Complete(id string, results *models.GroupedProcesses) error {
	if results == nil {
		return fmt.Errorf("completed item requires results: %s", id)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.find(id)
	if item == nil {
		return fmt.Errorf("workspace item not found: %s", id)
	}
	item.Status = models.StatusCompleted
	item.Results = results
	item.Error = ""
	item.Selected = false
	return nil
}

// Fail records a failed analysis. Any previous results are discarded.
func (l *Ledger) Fail(id string, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.find(id)
	if item == nil {
		return fmt.Errorf("workspace item not found: %s", id)
	}
	item.Status = models.StatusError
	item.Results = nil
	item.Error = message
	return nil
}

// ResetProcessing reverts every processing item back to idle. Used by the
// batch stop path so no item is left stuck in processing.
func (l *Ledger) ResetProcessing() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, item := range l.items {
		if item.Status == models.StatusProcessing {
			item.Status = models.StatusIdle
			n++
		}
	}
	return n
}

func (l *Ledger) find(id string) *models.WorkspaceItem {
	for _, item := range l.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
