// Package domain holds the types and ports of the normalizer service
package domain

// Sink names accepted in Job.Export
const (
	SinkPG = "pg"
	SinkCH = "ch"
)

// Job describes one normalization run
// empty fields are filled from service defaults before validation
type Job struct {
	// RawPath is the delimited raw appointment file, optionally gzip compressed
	// required once defaults are applied
	RawPath string `json:"raw_path,omitempty"`

	// OutDir receives one csv per relation; empty skips the file write
	OutDir string `json:"out_dir,omitempty"`

	// RunID tags every exported row; empty gets a fresh uuid
	RunID string `json:"run_id,omitempty" validate:"omitempty,uuid"`

	// Export lists sinks to publish to; nil uses the configured defaults
	Export []string `json:"export,omitempty" validate:"omitempty,dive,oneof=pg ch"`

	// NFC composes text cells into Unicode NFC while loading
	NFC *bool `json:"nfc,omitempty"`
}

// Report summarizes a finished run
type Report struct {
	RunID   string         `json:"run_id"`
	RawPath string         `json:"raw_path"`
	RawRows int            `json:"raw_rows"`
	OutDir  string         `json:"out_dir,omitempty"`
	Counts  map[string]int `json:"counts"`
	Sinks   []string       `json:"sinks,omitempty"`

	LoadMS      int `json:"load_ms"`
	NormalizeMS int `json:"normalize_ms"`
	WriteMS     int `json:"write_ms"`
	PublishMS   int `json:"publish_ms"`
	ElapsedMS   int `json:"elapsed_ms"`
}

// RunStart is what the ledger records when a run begins
type RunStart struct {
	RunID   string
	RawPath string
	OutDir  string
	Sinks   []string
}

// RunFinish is what the ledger records when a run ends
type RunFinish struct {
	Status    string // ok or error
	RawRows   int
	Relations int
	ElapsedMS int
	ErrText   string
}

// DefaultHistory is the run count listed when no limit is given
const DefaultHistory = 20

// HistoryQuery selects how many recorded runs to list
type HistoryQuery struct {
	Limit int `json:"limit" validate:"min=0,max=200"`
}
