package domain

import "time"

// Creator is a streaming-platform channel owner discovered for this run.
type Creator struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Clip is a candidate clip discovered from the platform, before selection.
type Clip struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	CreatorName string    `json:"creator_name"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// AcquiredFile is a fully written local file awaiting delivery. Name is the
// filename to use at the destination.
type AcquiredFile struct {
	Path string
	Name string
}

// Delivery records the outcome for a single delivered file.
type Delivery struct {
	Name  string
	Size  int64
	Error string
}

// RunSummary holds the per-stage counts of a completed pipeline run.
type RunSummary struct {
	RunID       string
	Discovered  int
	Selected    int
	Acquired    int
	Delivered   int
	Deliveries  []Delivery
	CompletedAt time.Time
}
