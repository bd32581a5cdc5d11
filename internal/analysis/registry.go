package analysis

import "sync"

// Registry tracks which task identifiers are still wanted. A task flips its
// entry on at start, re-checks it after every suspension point and silently
// abandons its work once the flag is gone. This is the sole cancellation
// mechanism; entries never expire on their own.
type Registry struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]bool)}
}

// Begin marks the task as wanted.
func (r *Registry) Begin(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[id] = true
}

// IsActive reports whether the task is still wanted.
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[id]
}

// Cancel asks a running task to abandon its next checkpoint.
func (r *Registry) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[id]; ok {
		r.active[id] = false
	}
}

// CancelAll flips every registered task to unwanted.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.active {
		r.active[id] = false
	}
}

// Finish removes the task's entry once it resolved or aborted.
func (r *Registry) Finish(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}
