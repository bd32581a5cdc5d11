package models

import "time"

// ItemStatus is the lifecycle state of a workspace item.
type ItemStatus string

const (
	StatusIdle       ItemStatus = "idle"
	StatusProcessing ItemStatus = "processing"
	StatusCompleted  ItemStatus = "completed"
	StatusError      ItemStatus = "error"
)

// WorkspaceItem is one split part of a source document, waiting for or
// holding the outcome of an analysis. The payload itself lives in object
// storage under StorageKey; items only carry the reference.
type WorkspaceItem struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	StorageKey string            `json:"storageKey"`
	FirstPage  int               `json:"firstPage"`
	LastPage   int               `json:"lastPage"`
	PageCount  int               `json:"pageCount"`
	Status     ItemStatus        `json:"status"`
	Selected   bool              `json:"selected"`
	Error      string            `json:"error,omitempty"`
	Results    *GroupedProcesses `json:"results,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}
