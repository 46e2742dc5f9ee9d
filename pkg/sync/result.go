package sync

import (
	"fmt"
	"strings"
	"time"
)

// Stats holds the per-entity counters for one sync phase.
type Stats struct {
	Fetched int `json:"fetched" yaml:"fetched"` // Records returned by the channel manager
	Created int `json:"created" yaml:"created"` // Records inserted locally
	Updated int `json:"updated" yaml:"updated"` // Records matched and refreshed
	Failed  int `json:"failed"  yaml:"failed"`  // Records that could not be applied
}

// Processed returns the number of records that reached a terminal outcome.
func (s Stats) Processed() int {
	return s.Created + s.Updated + s.Failed
}

// Result represents the complete result of a sync run.
type Result struct {
	// Per-phase statistics, in execution order.
	Guests       Stats `json:"guests"       yaml:"guests"`
	Properties   Stats `json:"properties"   yaml:"properties"`
	Reservations Stats `json:"reservations" yaml:"reservations"`

	// Calendar blocks derived from reservation upserts.
	BlocksCreated int `json:"blocks_created" yaml:"blocks_created"`

	// Errors collects per-record failures in the order they occurred,
	// each tagged with the offending external id.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Success is false only when the run failed before any record-level
	// work; per-record failures leave it true.
	Success bool `json:"success" yaml:"success"`

	// Operation metadata
	RunID     string        `json:"run_id"     yaml:"run_id"`
	DryRun    bool          `json:"dry_run"    yaml:"dry_run"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration"   yaml:"duration"`
}

// AddError records a per-record failure tagged with its external id.
func (r *Result) AddError(entity, externalID string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s %s: %v", entity, externalID, err))
}

// HasFailures returns true if any record failed during the run.
func (r *Result) HasFailures() bool {
	return r.Guests.Failed > 0 || r.Properties.Failed > 0 || r.Reservations.Failed > 0
}

// TotalCreated returns the number of entities created across all phases.
func (r *Result) TotalCreated() int {
	return r.Guests.Created + r.Properties.Created + r.Reservations.Created
}

// TotalUpdated returns the number of entities updated across all phases.
func (r *Result) TotalUpdated() int {
	return r.Guests.Updated + r.Properties.Updated + r.Reservations.Updated
}

// Summary returns a human-readable summary of the sync run.
func (r *Result) Summary() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("(Dry run) ")
	}
	fmt.Fprintf(&b, "guests %d/%d/%d, properties %d/%d/%d, reservations %d/%d/%d (created/updated/failed)",
		r.Guests.Created, r.Guests.Updated, r.Guests.Failed,
		r.Properties.Created, r.Properties.Updated, r.Properties.Failed,
		r.Reservations.Created, r.Reservations.Updated, r.Reservations.Failed,
	)
	if r.BlocksCreated > 0 {
		fmt.Fprintf(&b, ", %d calendar blocks", r.BlocksCreated)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, ", %d errors", len(r.Errors))
	}
	return b.String()
}
