package analysis

import (
	"sync"
	"time"
)

// Phase of the currently running analysis.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseExtracting Phase = "extracting"
	PhaseAnalyzing  Phase = "analyzing"
)

// Snapshot is the user-facing progress state. CurrentPage/TotalPages carry
// real extraction progress. Percent is a cosmetic ticker shown while the
// collaborator call is in flight; it carries no correctness meaning and is
// never consulted by control flow.
type Snapshot struct {
	Active      bool   `json:"active"`
	TaskID      string `json:"taskId,omitempty"`
	Name        string `json:"name,omitempty"`
	Phase       Phase  `json:"phase"`
	CurrentPage int    `json:"currentPage,omitempty"`
	TotalPages  int    `json:"totalPages,omitempty"`
	Percent     int    `json:"percent,omitempty"`
	Error       string `json:"error,omitempty"`
}

const (
	tickInterval = 250 * time.Millisecond
	tickStep     = 3
	tickCeiling  = 95 // stays below 100 until the phase actually ends
)

// Tracker holds the single global progress/error state shared by the direct
// upload and batch flows.
type Tracker struct {
	mu       sync.Mutex
	snap     Snapshot
	stopTick chan struct{}
}

func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Phase: PhaseIdle}}
}

// StartTask claims the tracker for a new task. The previous error is
// cleared, per the one-most-recent-error policy.
func (t *Tracker) StartTask(taskID, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	t.snap = Snapshot{
		Active: true,
		TaskID: taskID,
		Name:   name,
		Phase:  PhaseExtracting,
	}
}

// SetExtracting records real page-granularity extraction progress.
func (t *Tracker) SetExtracting(current, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Phase = PhaseExtracting
	t.snap.CurrentPage = current
	t.snap.TotalPages = total
}

// StartAnalyzing switches to the analyzing phase and starts the cosmetic
// percentage ticker. The collaborator gives no progress signal, so the
// value only reassures the user that something is happening.
func (t *Tracker) StartAnalyzing() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	t.snap.Phase = PhaseAnalyzing
	t.snap.Percent = 0
	t.stopTick = make(chan struct{})
	go t.tick(t.stopTick)
}

// Finish releases the tracker, keeping any recorded error on display.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	err := t.snap.Error
	t.snap = Snapshot{Phase: PhaseIdle, Error: err}
}

// SetError records a task failure and releases the tracker.
func (t *Tracker) SetError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	t.snap = Snapshot{Phase: PhaseIdle, Error: message}
}

// Reset clears everything, including the error. Used by the stop operation.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	t.snap = Snapshot{Phase: PhaseIdle}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

func (t *Tracker) stopTickerLocked() {
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
}

func (t *Tracker) tick(stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.snap.Phase == PhaseAnalyzing && t.snap.Percent < tickCeiling {
				t.snap.Percent += tickStep
				if t.snap.Percent > tickCeiling {
					t.snap.Percent = tickCeiling
				}
			}
			t.mu.Unlock()
		}
	}
}
