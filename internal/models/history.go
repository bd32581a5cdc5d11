package models

import "time"

// HistoryEntry is one completed analysis. Entries are immutable once created
// and only removed by an explicit clear of the whole history.
type HistoryEntry struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Results   *GroupedProcesses `json:"results"`
}
